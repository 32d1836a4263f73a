package health

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (c stubChecker) Name() string                    { return c.name }
func (c stubChecker) Check(ctx context.Context) error { return c.err }

func TestRegistry_AllHealthy(t *testing.T) {
	r := NewCheckerRegistry()
	r.Register(stubChecker{name: "a"})
	r.Register(stubChecker{name: "b"})

	h := r.Check(context.Background())
	assert.Equal(t, StatusHealthy, h.Status)
	assert.Len(t, h.Checks, 2)
}

func TestRegistry_OneUnhealthy(t *testing.T) {
	r := NewCheckerRegistry()
	r.Register(stubChecker{name: "ok"})
	r.Register(stubChecker{name: "broken", err: errors.New("down")})

	h := r.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, h.Status)
	assert.Equal(t, StatusHealthy, h.Checks["ok"].Status)
	assert.Equal(t, StatusUnhealthy, h.Checks["broken"].Status)
	assert.Equal(t, "down", h.Checks["broken"].Message)
}

func TestFeedFileChecker_AbsentFileIsHealthy(t *testing.T) {
	checker := NewFeedFileChecker(filepath.Join(t.TempDir(), "not-yet-written.txt"))
	require.NoError(t, checker.Check(context.Background()))
}
