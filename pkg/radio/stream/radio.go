package stream

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/radio"
)

// DialTimeout bounds connecting to the peer when a channel is opened.
const DialTimeout = 5 * time.Second

// Dialer opens channels by connecting to a listening peer.
type Dialer struct {
	Network  string
	Addr     string
	Settings radio.Settings
}

// NewDialer creates a Dialer for a TCP peer at hostport.
func NewDialer(hostport string, settings radio.Settings) *Dialer {
	return &Dialer{Network: "tcp", Addr: hostport, Settings: settings}
}

// OpenWrite implements Radio.
func (d *Dialer) OpenWrite(addr radio.Address) (radio.Channel, error) {
	return d.open(addr)
}

// OpenRead implements Radio.
func (d *Dialer) OpenRead(addr radio.Address) (radio.Channel, error) {
	return d.open(addr)
}

func (d *Dialer) open(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	conn, err := net.DialTimeout(d.Network, d.Addr, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.Addr, err)
	}
	rw := New(conn)
	if err := radio.WriteHello(rw, addr); err != nil {
		conn.Close()
		return nil, err
	}
	return radio.NewPacketChannel(rw, d.Settings.MaxFrameSize), nil
}

// Listener opens channels served to peers connecting to it.
type Listener struct {
	Listener net.Listener
	Settings radio.Settings
}

// Listen creates a Listener on a TCP address.
func Listen(hostport string, settings radio.Settings) (*Listener, error) {
	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", hostport, err)
	}
	return &Listener{Listener: ln, Settings: settings}, nil
}

// OpenWrite implements Radio.
func (l *Listener) OpenWrite(addr radio.Address) (radio.Channel, error) {
	return l.open(addr)
}

// OpenRead implements Radio.
func (l *Listener) OpenRead(addr radio.Address) (radio.Channel, error) {
	return l.open(addr)
}

func (l *Listener) open(addr radio.Address) (radio.Channel, error) {
	if !addr.IsValid() {
		return nil, radio.ErrInvalidAddress
	}
	return &hubChannel{Hub: radio.NewHub(addr, l.Settings.MaxFrameSize), ln: l.Listener}, nil
}

type hubChannel struct {
	*radio.Hub
	ln net.Listener
}

// Run accepts connections until ctx is done.
func (c *hubChannel) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, c.ln, func() error {
		for {
			conn, err := c.ln.Accept()
			if err != nil {
				return err
			}
			glog.V(1).Infof("accepted %s", conn.RemoteAddr())
			go c.Serve(ctx, New(conn))
		}
	})
}

func (c *hubChannel) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
}
