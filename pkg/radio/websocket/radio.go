package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/websocket"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/radio"
)

// Dialer opens channels by connecting to a websocket URL.
type Dialer struct {
	URL      string
	Origin   string
	Settings radio.Settings
}

// NewDialer creates a Dialer. The origin defaults to the URL's host over http.
func NewDialer(wsURL string, settings radio.Settings) (*Dialer, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	scheme := "http"
	if u.Scheme == "wss" {
		scheme = "https"
	}
	return &Dialer{
		URL:      wsURL,
		Origin:   scheme + "://" + u.Host + "/",
		Settings: settings,
	}, nil
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
	conn, err := websocket.Dial(d.URL, "", d.Origin)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.URL, err)
	}
	rw := New(conn)
	if err := radio.WriteHello(rw, addr); err != nil {
		conn.Close()
		return nil, err
	}
	return radio.NewPacketChannel(rw, d.Settings.MaxFrameSize), nil
}

// Listener serves a websocket endpoint peers connect to.
type Listener struct {
	Listener net.Listener
	Path     string
	Settings radio.Settings
}

// Listen creates a Listener on hostport serving path.
func Listen(hostport, path string, settings radio.Settings) (*Listener, error) {
	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", hostport, err)
	}
	if path == "" {
		path = "/"
	}
	return &Listener{Listener: ln, Path: path, Settings: settings}, nil
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
	return &hubChannel{Hub: radio.NewHub(addr, l.Settings.MaxFrameSize), listener: l}, nil
}

type hubChannel struct {
	*radio.Hub
	listener *Listener
}

// Run serves websocket connections until ctx is done.
func (c *hubChannel) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(c.listener.Path, websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		c.Serve(ctx, New(conn))
	}))
	server := &http.Server{Handler: mux}
	err := fx.RunWithContextCancel(ctx, func() { server.Close() }, func() error {
		return server.Serve(c.listener.Listener)
	})
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (c *hubChannel) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
}
