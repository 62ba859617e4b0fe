package radio

import (
	"context"

	"github.com/golang/glog"
)

// Inbox holds received frames until the device polls them.
type Inbox struct {
	MaxFrameSize int

	frames chan []byte
}

// NewInbox creates an Inbox. depth <= 0 uses DefaultQueueDepth.
func NewInbox(maxFrameSize, depth int) *Inbox {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Inbox{MaxFrameSize: maxFrameSize, frames: make(chan []byte, depth)}
}

// Deliver queues a frame, truncated to MaxFrameSize. When the queue is
// full the frame is dropped, as a radio receive FIFO would.
func (b *Inbox) Deliver(frame []byte) bool {
	if b.MaxFrameSize > 0 && len(frame) > b.MaxFrameSize {
		glog.V(1).Infof("frame of %d bytes truncated to %d", len(frame), b.MaxFrameSize)
	}
	select {
	case b.frames <- Bound(frame, b.MaxFrameSize):
		return true
	default:
		glog.Warning("receive queue full, frame dropped")
		return false
	}
}

// TryReceive implements Channel.
func (b *Inbox) TryReceive() ([]byte, bool) {
	select {
	case frame := <-b.frames:
		return frame, true
	default:
		return nil, false
	}
}

// Drain delivers packets from r until it fails or ctx is done.
func (b *Inbox) Drain(ctx context.Context, r PacketReader) error {
	for {
		pkt, err := r.ReadPacket()
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			b.Deliver(pkt)
		}
	}
}
