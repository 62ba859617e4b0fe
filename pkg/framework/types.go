// Package framework provides the polling loop a device runs on: controllers
// polled by priority on a fixed interval, with background Runnables feeding
// them.
package framework

import (
	"context"
	"time"
)

// Named is implemented by things reporting a name in logs.
type Named interface {
	Name() string
}

// Runnable runs in the background until its context is done.
type Runnable interface {
	Run(context.Context) error
}

// Message is passed between controllers of one iteration.
type Message interface{}

// Controller is polled once per iteration. It must not block.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is what a controller sees of the current iteration.
type ControlContext interface {
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	PriorityLevel() int
	Messages() MessageStore

	LoopControl
}

// PriorityLevels is the number of priority levels, 0 runs first.
const PriorityLevels int = 16

// Priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvPoll is where devices check their inputs.
	PrLvPoll = PrLvNormal
	// PrLvPostProc is where outcomes of an iteration are reported.
	PrLvPostProc = PrLvIdle - 1
)

// LoopControl influences the loop from controllers or runnables.
type LoopControl interface {
	// PostMessage queues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext starts the next iteration without waiting for the tick.
	TriggerNext()
}

// MessageStore holds the messages of an iteration.
type MessageStore interface {
	// ProcessMessages visits messages in order.
	ProcessMessages(MessageProcessor)
	// AddMessages appends messages for controllers polled later.
	AddMessages(msgs ...Message)
}

// MessageProcessor visits messages of a MessageStore.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is passed to a MessageProcessor per message.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the current message from the store.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()
}
