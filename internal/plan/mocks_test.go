// internal/plan/mocks_test.go
package plan

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// MockController mocks cursor.Controller.
type MockController struct {
	mock.Mock
}

var _ cursor.Controller = (*MockController)(nil)

func (m *MockController) Move(ctx context.Context, target cursor.Target, opts *cursor.MoveOptions) error {
	args := m.Called(ctx, target, opts)
	return args.Error(0)
}

func (m *MockController) MoveTo(ctx context.Context, destination cursor.Vector, opts *cursor.MoveToOptions) error {
	args := m.Called(ctx, destination, opts)
	return args.Error(0)
}

func (m *MockController) Click(ctx context.Context, opts *cursor.ClickOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

// positionedController adds a fixed Position to MockController.
type positionedController struct {
	MockController
	pos cursor.Vector
}

func (p *positionedController) Position() cursor.Vector { return p.pos }
