package link

import (
	"context"

	fx "github.com/robotalks/seclink/pkg/framework"
)

// Step is one side of a device: it polls for work and reacts to it.
type Step[T any] interface {
	// Poll returns work if ready. It must not block.
	Poll() (T, bool)
	// React runs a full cycle on the work.
	React(ctx context.Context, work T) *Report
}

// Cycle drives a Step once per loop iteration.
type Cycle[T any] struct {
	Step Step[T]
}

// NewCycle creates a Cycle.
func NewCycle[T any](step Step[T]) *Cycle[T] {
	return &Cycle[T]{Step: step}
}

// Control implements Controller.
func (c *Cycle[T]) Control(cc fx.ControlContext) error {
	work, ok := c.Step.Poll()
	if !ok {
		return nil
	}
	if r := c.Step.React(cc.Context(), work); r != nil {
		if r.Time.IsZero() {
			r.Time = cc.Time()
		}
		cc.Messages().AddMessages(r)
	}
	// more work may be pending.
	cc.TriggerNext()
	return nil
}

// AddToLoop implements LoopAdder.
func (c *Cycle[T]) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPoll, c)
}
