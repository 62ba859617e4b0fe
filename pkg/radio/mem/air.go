// Package mem provides an in-process radio for running both devices in one
// process.
package mem

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/seclink/pkg/radio"
)

// Air carries frames between channels opened on the same address.
type Air struct {
	Settings radio.Settings
	// Tamper, if set, may alter every frame in flight.
	Tamper func([]byte) []byte

	inboxes map[radio.Address]*radio.Inbox
	lock    sync.Mutex
}

// NewAir creates an Air.
func NewAir(settings radio.Settings) *Air {
	return &Air{Settings: settings, inboxes: make(map[radio.Address]*radio.Inbox)}
}

// OpenWrite implements Radio.
func (a *Air) OpenWrite(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	return &channel{air: a, addr: addr}, nil
}

// OpenRead implements Radio. Opening the same address again returns a
// channel sharing the same received frames.
func (a *Air) OpenRead(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	return &channel{air: a, addr: addr, inbox: a.inbox(addr, true)}, nil
}

func (a *Air) inbox(addr radio.Address, create bool) *radio.Inbox {
	a.lock.Lock()
	defer a.lock.Unlock()
	inbox := a.inboxes[addr]
	if inbox == nil && create {
		inbox = radio.NewInbox(a.Settings.MaxFrameSize, 0)
		a.inboxes[addr] = inbox
	}
	return inbox
}

func (a *Air) transmit(addr radio.Address, frame []byte) bool {
	inbox := a.inbox(addr, false)
	if inbox == nil {
		glog.V(1).Infof("nobody listening on %q", string(addr))
		return false
	}
	frame = append([]byte(nil), frame...)
	if tamper := a.Tamper; tamper != nil {
		frame = tamper(frame)
	}
	return inbox.Deliver(frame)
}

type channel struct {
	air   *Air
	addr  radio.Address
	inbox *radio.Inbox
}

func (c *channel) Send(frame []byte) bool {
	return c.air.transmit(c.addr, frame)
}

func (c *channel) TryReceive() ([]byte, bool) {
	if c.inbox == nil {
		return nil, false
	}
	return c.inbox.TryReceive()
}
