// File: cmd/run.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/internal/browser/session"
	"github.com/xkilldash9x/ghostcursor/internal/config"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
	"github.com/xkilldash9x/ghostcursor/internal/observability"
	"github.com/xkilldash9x/ghostcursor/internal/plan"
)

// launchSession is replaced in tests.
var launchSession = session.Launch

type runOptions struct {
	url      string
	planPath string
	report   string
}

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Opens a page and replays an action plan with the cursor",
		Long: `run launches a browser, navigates to --url and executes the steps of the
YAML plan given by --plan (move, moveTo, click, wait). A JSON report of the
step outcomes is written to --report ("-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	runCmd.Flags().StringVar(&opts.url, "url", "", "page to open before running the plan")
	runCmd.Flags().StringVar(&opts.planPath, "plan", "", "path to the YAML action plan")
	runCmd.Flags().StringVar(&opts.report, "report", "", `write the JSON step report to this file ("-" for stdout)`)
	runCmd.Flags().String("driver", "", "browser driver: chromedp or rod (overrides config)")
	runCmd.Flags().Bool("headless", true, "run the browser without a window (overrides config)")
	runCmd.Flags().Bool("idle", false, "wander while no action runs (overrides config)")
	runCmd.Flags().Bool("overlay", false, "draw the pointer on the page (overrides config)")
	runCmd.Flags().Int64("seed", 0, "seed for reproducible trajectories (overrides config)")
	_ = runCmd.MarkFlagRequired("url")
	_ = runCmd.MarkFlagRequired("plan")
	return runCmd
}

// applyRunFlags copies explicitly set flags onto the configuration.
func applyRunFlags(cmd *cobra.Command, cfg config.Interface) {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		v, _ := flags.GetString("driver")
		cfg.SetBrowserDriver(v)
	}
	if flags.Changed("headless") {
		v, _ := flags.GetBool("headless")
		cfg.SetBrowserHeadless(v)
	}
	if flags.Changed("idle") {
		v, _ := flags.GetBool("idle")
		cfg.SetCursorIdleEnabled(v)
	}
	if flags.Changed("overlay") {
		v, _ := flags.GetBool("overlay")
		cfg.SetCursorDebugOverlay(v)
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		cfg.SetCursorSeed(v)
	}
}

func runPlan(cmd *cobra.Command, opts *runOptions) (err error) {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	browserCfg := cfg.Browser()
	if err := browserCfg.Validate(); err != nil {
		return fmt.Errorf("invalid browser configuration: %w", err)
	}

	p, err := plan.LoadFile(opts.planPath)
	if err != nil {
		return err
	}

	sess, err := launchSession(ctx, browserCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Warn("Failed to close browser", zap.Error(cerr))
		}
	}()

	if err := sess.Navigate(ctx, opts.url); err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.url, err)
	}

	c, err := cursor.New(ctx, sess, cfg.Cursor().Build(), logger)
	if err != nil {
		return fmt.Errorf("failed to create cursor: %w", err)
	}
	defer c.Close()

	logger.Info("Running plan",
		zap.String("plan", p.Name),
		zap.String("url", opts.url),
		zap.String("driver", browserCfg.Driver),
		zap.String("cursor_id", c.ID()))

	report, runErr := plan.NewRunner(c, sess.Sleep, logger).Run(ctx, p)
	if report != nil && opts.report != "" {
		if werr := writeReport(cmd, opts.report, report); werr != nil {
			return errors.Join(runErr, werr)
		}
	}
	return runErr
}

func writeReport(cmd *cobra.Command, path string, report *plan.Report) error {
	data, err := report.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
