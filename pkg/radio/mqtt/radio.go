package mqtt

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/radio"
)

// Timeouts of broker operations.
const (
	ConnectTimeout = 5 * time.Second
	SendTimeout    = time.Second
)

// ErrTimeout indicates the broker didn't respond in time.
var ErrTimeout = errors.New("mqtt timeout")

// FrameTopic returns the topic frames on addr are published to.
func FrameTopic(addr radio.Address) string {
	return string(addr) + "/frames"
}

// Radio opens channels as MQTT topics.
type Radio struct {
	Queue    *Queue
	Settings radio.Settings
}

// Dial connects to the broker at brokerURL.
func Dial(brokerURL string, settings radio.Settings) (*Radio, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err := q.Connect(ConnectTimeout); err != nil {
		return nil, err
	}
	return &Radio{Queue: q, Settings: settings}, nil
}

// OpenWrite implements Radio.
func (r *Radio) OpenWrite(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	return &writer{queue: r.Queue, topic: FrameTopic(addr)}, nil
}

// OpenRead implements Radio.
func (r *Radio) OpenRead(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	rw := NewPacketReadWriter(r.Queue, FrameTopic(addr))
	token := rw.subscribe()
	if !token.WaitTimeout(ConnectTimeout) {
		return nil, ErrTimeout
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	return radio.NewPacketChannel(rw, r.Settings.MaxFrameSize), nil
}

// Run keeps the connection until ctx is done.
func (r *Radio) Run(ctx context.Context) error {
	<-ctx.Done()
	r.Queue.Close()
	return ctx.Err()
}

// AddToLoop implements LoopAdder.
func (r *Radio) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

type writer struct {
	queue *Queue
	topic string
}

func (w *writer) Send(frame []byte) bool {
	token := w.queue.Pub(w.topic, frame)
	return token.WaitTimeout(SendTimeout) && token.Error() == nil
}

func (w *writer) TryReceive() ([]byte, bool) {
	return nil, false
}

// ReadWriter implements PacketReadWriter on a single topic.
type ReadWriter struct {
	Queue *Queue
	Topic string

	packetCh  chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue, topic string) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		Topic:    topic,
		packetCh: make(chan []byte, 1),
		closeCh:  make(chan struct{}),
	}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.Topic, pkt)
	if !token.WaitTimeout(SendTimeout) {
		return ErrTimeout
	}
	return token.Error()
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	p.closeOnce.Do(func() {
		close(p.closeCh)
		p.Queue.Unsub(p.Topic)
	})
	return nil
}

func (p *ReadWriter) subscribe() paho.Token {
	return p.Queue.Sub(p.Topic, p.handleMsg)
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- append([]byte(nil), payload...):
	case <-p.closeCh:
	}
}
