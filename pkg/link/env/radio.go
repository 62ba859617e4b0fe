package env

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robotalks/seclink/pkg/radio"
	"github.com/robotalks/seclink/pkg/radio/mem"
	"github.com/robotalks/seclink/pkg/radio/mqtt"
	"github.com/robotalks/seclink/pkg/radio/stream"
	"github.com/robotalks/seclink/pkg/radio/websocket"
)

// Settings are the radio settings of the config. Power and data rate are
// fixed on both ends.
func (c *Config) Settings() radio.Settings {
	s := radio.DefaultSettings
	s.MaxFrameSize = c.MaxFrameSize
	return s
}

// OpenRadio creates the radio RadioURL names:
//
//	mem:                          in-process air (Config.Air)
//	mqtt://host:port/prefix/      MQTT broker
//	tcp://host:port               dial a peer
//	tcp+listen://host:port        accept peers
//	ws://host:port/path           dial a peer over websocket
//	ws+listen://host:port/path    accept peers over websocket
func (c *Config) OpenRadio() (radio.Radio, error) {
	parsedURL, err := url.Parse(c.RadioURL)
	if err != nil {
		return nil, fmt.Errorf("invalid radio URL: %w", err)
	}
	settings := c.Settings()
	switch parsedURL.Scheme {
	case "mem":
		if c.Air == nil {
			c.Air = mem.NewAir(settings)
		}
		return c.Air, nil
	case "mqtt", "mqtts":
		return mqtt.Dial(c.RadioURL, settings)
	case "tcp":
		return stream.NewDialer(parsedURL.Host, settings), nil
	case "tcp+listen":
		return stream.Listen(parsedURL.Host, settings)
	case "ws", "wss":
		return websocket.NewDialer(c.RadioURL, settings)
	case "ws+listen":
		return websocket.Listen(parsedURL.Host, listenPath(parsedURL.Path), settings)
	default:
		return nil, fmt.Errorf("unknown radio URL scheme: %q", parsedURL.Scheme)
	}
}

func listenPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
