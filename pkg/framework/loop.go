package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the polling interval when Loop.Interval is not set.
const DefaultInterval = 10 * time.Millisecond

// Loop runs controllers by priority on every tick, and the background
// runners feeding them.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	messages []Message
	lock     sync.Mutex

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

var loopCtxKey = &Loop{}

// LoopCtlFrom gets LoopControl from a context passed to runners.
// It returns nil when the context isn't from a Loop.
func LoopCtlFrom(ctx context.Context) LoopControl {
	ctl, _ := ctx.Value(loopCtxKey).(LoopControl)
	return ctl
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	l.lock.Lock()
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	l.lock.Unlock()

	runCtx, cancel := context.WithCancel(context.WithValue(ctx, loopCtxKey, l))
	runner := NewRunnerWith(runCtx).Go(l.runners...)
	defer func() {
		cancel()
		if err := runner.Wait(); err != nil {
			glog.Errorf("runner error: %v", err)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.RunIteration(ctx)
		case <-l.wakeUpCh:
			l.RunIteration(ctx)
		}
	}
}

// RunIteration runs all controllers once. Run calls it on every tick; it's
// exposed to drive a loop step by step.
func (l *Loop) RunIteration(ctx context.Context) {
	iter := &loopIteration{Loop: l, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	iter.ctx = context.WithValue(ctx, loopCtxKey, l)
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if len(iter.messages) > 0 {
		glog.V(3).Infof("%d messages left unprocessed", len(iter.messages))
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	l.lock.Lock()
	ch := l.wakeUpCh
	l.lock.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Messages() MessageStore {
	return t
}

type messageContext struct {
	msg   Message
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message { return c.msg }
func (c *messageContext) MessageTaken()           { c.taken = true }
func (c *messageContext) StopProcessing()         { c.stop = true }

func (t *loopIteration) ProcessMessages(proc MessageProcessor) {
	msgs := t.messages
	t.messages = nil
	remains := make([]Message, 0, len(msgs))
	for n, msg := range msgs {
		mctx := &messageContext{msg: msg}
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains = append(remains, msg)
		}
		if mctx.stop {
			remains = append(remains, msgs[n+1:]...)
			break
		}
	}
	// messages added by the processor come after the ones already there.
	t.messages = append(remains, t.messages...)
}

func (t *loopIteration) AddMessages(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}
