// File: cmd/run_test.go
package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/internal/browser/session"
	"github.com/xkilldash9x/ghostcursor/internal/config"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
	"github.com/xkilldash9x/ghostcursor/internal/plan"
)

const clickPlan = `
name: smoke
steps:
  - type: click
    selector: "#go"
  - type: wait
    duration: 10ms
`

func TestRunCmd_ExecutesPlan(t *testing.T) {
	fake := setupCmdTest(t)
	planPath := writeFile(t, "plan.yaml", clickPlan)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, err := executeCommand(t, "--log-level", "error", "run",
		"--url", "http://example.test/login",
		"--plan", planPath,
		"--report", reportPath,
		"--driver", "rod",
		"--headless=false",
		"--idle=false",
		"--seed", "7")
	require.NoError(t, err)

	assert.Equal(t, []string{"http://example.test/login"}, fake.navigated)
	assert.Equal(t, config.DriverRod, fake.cfg.Driver)
	assert.False(t, fake.cfg.Headless)
	assert.True(t, fake.closed)

	ops := fake.recorded()
	assert.Contains(t, ops, "move")
	assert.Contains(t, ops, "press")
	assert.Equal(t, "release", ops[len(ops)-1])

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report plan.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "smoke", report.Plan)
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.Equal(t, plan.StatusSuccess, res.Status)
	}
}

func TestRunCmd_ReportToStdout(t *testing.T) {
	setupCmdTest(t)
	planPath := writeFile(t, "plan.yaml", clickPlan)

	out, err := executeCommand(t, "--log-level", "error", "run",
		"--url", "http://example.test", "--plan", planPath, "--report", "-", "--idle=false")
	require.NoError(t, err)
	assert.Contains(t, out, `"plan": "smoke"`)
}

func TestRunCmd_FailingStepWritesReport(t *testing.T) {
	fake := setupCmdTest(t)
	delete(fake.boxes, "#go")
	planPath := writeFile(t, "plan.yaml", clickPlan)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, err := executeCommand(t, "--log-level", "error", "run",
		"--url", "http://example.test", "--plan", planPath, "--report", reportPath, "--idle=false")
	require.Error(t, err)
	assert.ErrorIs(t, err, cursor.ErrSelectorNotFound)
	assert.True(t, fake.closed)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report plan.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, plan.StatusFailed, report.Results[0].Status)
	assert.Equal(t, plan.StatusSkipped, report.Results[1].Status)
}

func TestRunCmd_Errors(t *testing.T) {
	t.Run("RequiredFlags", func(t *testing.T) {
		setupCmdTest(t)
		_, err := executeCommand(t, "run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required flag(s)")
	})

	t.Run("MissingPlanFile", func(t *testing.T) {
		fake := setupCmdTest(t)
		_, err := executeCommand(t, "--log-level", "error", "run",
			"--url", "http://example.test", "--plan", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open plan file")
		assert.Empty(t, fake.navigated, "the browser is not launched for a bad plan")
	})

	t.Run("InvalidDriver", func(t *testing.T) {
		setupCmdTest(t)
		planPath := writeFile(t, "plan.yaml", clickPlan)
		_, err := executeCommand(t, "--log-level", "error", "run",
			"--url", "http://example.test", "--plan", planPath, "--driver", "selenium")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid browser configuration")
	})

	t.Run("LaunchFailure", func(t *testing.T) {
		setupCmdTest(t)
		launchSession = func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (session.Session, error) {
			return nil, errors.New("no chrome")
		}
		planPath := writeFile(t, "plan.yaml", clickPlan)
		_, err := executeCommand(t, "--log-level", "error", "run",
			"--url", "http://example.test", "--plan", planPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to launch browser: no chrome")
	})
}
