// Package cleanup runs best-effort deletion steps. A failed step leaves an
// orphan in a secondary store, which is preferable to a record the user can
// never delete; failures are logged with enough context to sweep later.
package cleanup

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Executor accumulates the outcome of a cascading deletion.
type Executor struct {
	succeeded int
	failed    int
}

func NewExecutor() *Executor {
	return &Executor{}
}

// Run executes one named step. The error is logged and swallowed.
func (e *Executor) Run(ctx context.Context, step string, fields []zap.Field, fn func() error) {
	if err := fn(); err != nil {
		e.failed++
		ctxzap.Warn(ctx, "cleanup step failed, continuing",
			append(fields, zap.String("step", step), zap.Error(err))...,
		)
		return
	}
	e.succeeded++
}

// Succeeded returns the number of completed steps.
func (e *Executor) Succeeded() int { return e.succeeded }

// Failed returns the number of failed steps.
func (e *Executor) Failed() int { return e.failed }

// Report logs the final tally of the cascade.
func (e *Executor) Report(ctx context.Context, what string, fields ...zap.Field) {
	ctxzap.Info(ctx, what+" cleanup finished",
		append(fields,
			zap.Int("steps_succeeded", e.succeeded),
			zap.Int("steps_failed", e.failed),
		)...,
	)
}
