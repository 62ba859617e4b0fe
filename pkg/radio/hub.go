package radio

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
)

// Hub is the Channel of a listening end. Every accepted connection must
// announce the hub's address, then its packets go to the shared Inbox.
type Hub struct {
	Address Address
	Inbox   *Inbox

	conns map[PacketReadWriter]struct{}
	lock  sync.Mutex
}

// NewHub creates a Hub.
func NewHub(addr Address, maxFrameSize int) *Hub {
	return &Hub{
		Address: addr,
		Inbox:   NewInbox(maxFrameSize, 0),
		conns:   make(map[PacketReadWriter]struct{}),
	}
}

// Serve handles one connection until it fails or ctx is done. A connection
// implementing io.Closer is closed when Serve returns, and also as soon as
// ctx is done to unblock pending reads.
func (h *Hub) Serve(ctx context.Context, rw PacketReadWriter) error {
	closer, ok := rw.(io.Closer)
	if !ok {
		return h.serve(ctx, rw)
	}
	return fx.RunWithContextCloser(ctx, closer, func() error {
		return h.serve(ctx, rw)
	})
}

func (h *Hub) serve(ctx context.Context, rw PacketReadWriter) error {
	if err := ExpectHello(rw, h.Address); err != nil {
		glog.Warningf("peer rejected: %v", err)
		return err
	}
	h.lock.Lock()
	h.conns[rw] = struct{}{}
	h.lock.Unlock()
	defer func() {
		h.lock.Lock()
		delete(h.conns, rw)
		h.lock.Unlock()
	}()
	glog.V(1).Infof("peer connected on %q", string(h.Address))
	return h.Inbox.Drain(ctx, rw)
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.conns)
}

// Send implements Channel. It succeeds when at least one peer took it.
func (h *Hub) Send(frame []byte) bool {
	var sent bool
	for _, rw := range h.peers() {
		if err := rw.WritePacket(frame); err != nil {
			glog.Warningf("send error: %v", err)
			continue
		}
		sent = true
	}
	return sent
}

func (h *Hub) peers() []PacketReadWriter {
	h.lock.Lock()
	defer h.lock.Unlock()
	peers := make([]PacketReadWriter, 0, len(h.conns))
	for rw := range h.conns {
		peers = append(peers, rw)
	}
	return peers
}

// TryReceive implements Channel.
func (h *Hub) TryReceive() ([]byte, bool) {
	return h.Inbox.TryReceive()
}
