package radio

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
)

// PacketChannel adapts a PacketReadWriter into a Channel. Received packets
// are read in the background and queued in an Inbox.
type PacketChannel struct {
	ReadWriter PacketReadWriter
	Inbox      *Inbox

	sendLock sync.Mutex
}

// NewPacketChannel creates a PacketChannel.
func NewPacketChannel(rw PacketReadWriter, maxFrameSize int) *PacketChannel {
	return &PacketChannel{ReadWriter: rw, Inbox: NewInbox(maxFrameSize, 0)}
}

// Send implements Channel.
func (c *PacketChannel) Send(frame []byte) bool {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()
	if err := c.ReadWriter.WritePacket(frame); err != nil {
		glog.Warningf("send error: %v", err)
		return false
	}
	return true
}

// TryReceive implements Channel.
func (c *PacketChannel) TryReceive() ([]byte, bool) {
	return c.Inbox.TryReceive()
}

// Run implements Runnable.
func (c *PacketChannel) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, c, func() error {
		return c.Inbox.Drain(ctx, c.ReadWriter)
	})
}

// Close implements io.Closer.
func (c *PacketChannel) Close() error {
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (c *PacketChannel) AddToLoop(loop *fx.Loop) {
	if adder, ok := c.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := c.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(c)
}
