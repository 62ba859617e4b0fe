package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait when a second stop signal arrives
// before all runnables stopped.
var ErrForcedExit = errors.New("forced exit")

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun gives a Runnable the name used in Runner logs and errors.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

func nameOf(runnable Runnable) string {
	if named, ok := runnable.(Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", runnable)
}

type runResult struct {
	name string
	err  error
}

// Runner owns the goroutines of a device process: it starts Runnables
// with a shared context and collects how they ended.
type Runner struct {
	Context context.Context

	cancel  context.CancelFunc
	started int
	results chan runResult
	forced  chan struct{}
}

// NewRunner creates a Runner on a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a Runner whose context derives from ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		results: make(chan runResult, 1),
		forced:  make(chan struct{}),
	}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// Stop cancels the context of all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// HandleSignals stops the Runner on SIGINT or SIGTERM. A second signal makes
// Wait give up with ErrForcedExit.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.Stop()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.forced)
	}()
	return r
}

// Go starts Runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		r.started++
		go r.run(nameOf(runnable), runnable)
	}
	return r
}

func (r *Runner) run(name string, runnable Runnable) {
	glog.V(4).Infof("%s started", name)
	err := runnable.Run(r.Context)
	glog.V(4).Infof("%s stopped: %v", name, err)
	r.results <- runResult{name: name, err: err}
}

// Wait waits for all started Runnables. Failures other than
// context.Canceled are aggregated, each prefixed by the Runnable's name.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.started > 0; r.started-- {
		select {
		case <-r.forced:
			return ErrForcedExit
		case res := <-r.results:
			if res.err != nil && !errors.Is(res.err, context.Canceled) {
				errs.Add(fmt.Errorf("%s: %w", res.name, res.err))
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs fn, which can't watch ctx itself. If ctx is done
// first, onCancel must make fn return, and the result is context.Canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	if onCancel != nil {
		onCancel()
	}
	<-done
	return context.Canceled
}

// RunWithContextCloser is RunWithContextCancel using closer to stop fn.
// closer is closed exactly once, also when fn returns by itself.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	closeOnce := func() {
		once.Do(func() {
			if err := closer.Close(); err != nil {
				glog.V(1).Infof("close error: %v", err)
			}
		})
	}
	defer closeOnce()
	return RunWithContextCancel(ctx, closeOnce, fn)
}
