package telemetry

import (
	"context"
	"errors"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/radio"
	"github.com/robotalks/seclink/pkg/radio/mqtt"
)

// Publisher accepts events without blocking.
type Publisher interface {
	Publish(*LinkEvent) error
}

// ErrBacklog indicates events are produced faster than they're published.
var ErrBacklog = errors.New("telemetry backlog full")

// EventTopic returns the topic events of addr are published to.
func EventTopic(addr radio.Address) string {
	return string(addr) + "/events"
}

// MQTTPublisher publishes events to MQTT in the background.
type MQTTPublisher struct {
	Queue *mqtt.Queue
	Topic string

	events chan *LinkEvent
}

// DefaultBacklog is the number of events waiting to be published.
const DefaultBacklog = 16

// NewMQTTPublisher creates a MQTTPublisher on the event topic of addr.
func NewMQTTPublisher(q *mqtt.Queue, addr radio.Address) *MQTTPublisher {
	return &MQTTPublisher{
		Queue:  q,
		Topic:  EventTopic(addr),
		events: make(chan *LinkEvent, DefaultBacklog),
	}
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(ev *LinkEvent) error {
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrBacklog
	}
}

// Run implements Runnable.
func (p *MQTTPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.events:
			data, err := ev.Encode()
			if err != nil {
				glog.Errorf("encode event error: %v", err)
				continue
			}
			if err := p.publish(data); err != nil {
				glog.Warningf("publish event error: %v", err)
			}
		}
	}
}

func (p *MQTTPublisher) publish(data []byte) error {
	token := p.Queue.Pub(p.Topic, data)
	if !token.WaitTimeout(mqtt.SendTimeout) {
		return mqtt.ErrTimeout
	}
	return token.Error()
}

// AddToLoop implements LoopAdder.
func (p *MQTTPublisher) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(p)
}
