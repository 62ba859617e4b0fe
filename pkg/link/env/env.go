// Package env sets up the environment a link device runs in from flags and
// environment variables.
package env

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/seclink/pkg/codec"
	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/link"
	"github.com/robotalks/seclink/pkg/radio"
	"github.com/robotalks/seclink/pkg/radio/mem"
	"github.com/robotalks/seclink/pkg/radio/mqtt"
	"github.com/robotalks/seclink/pkg/telemetry"
)

// Config provides common options to setup a link device.
type Config struct {
	Address      string
	Key          string
	MaxFrameSize int
	DeviceID     string

	// RadioURL selects the radio, see OpenRadio.
	RadioURL string
	// MQTTURL is where telemetry is published. When empty, telemetry goes
	// through the radio's broker if the radio is MQTT, otherwise it's off.
	MQTTURL string

	// Air is used by mem: radios.
	Air *mem.Air
}

var defaultConfig = Config{
	Address:      string(link.DefaultAddress),
	Key:          link.DefaultKeyMaterial,
	MaxFrameSize: radio.DefaultMaxFrameSize,
	RadioURL:     "mqtt://localhost:1883/seclink/",
}

func init() {
	if val := os.Getenv("SECLINK_ADDRESS"); val != "" {
		defaultConfig.Address = val
	}
	if val := os.Getenv("SECLINK_KEY"); val != "" {
		defaultConfig.Key = val
	}
	if val := os.Getenv("SECLINK_MAX_FRAME"); val != "" {
		if n, err := parseMaxFrame(val); err == nil {
			defaultConfig.MaxFrameSize = n
		} else {
			glog.Warningf("SECLINK_MAX_FRAME ignored: %v", err)
		}
	}
	if val := os.Getenv("SECLINK_RADIO_URL"); val != "" {
		defaultConfig.RadioURL = val
	}
	if val := os.Getenv("SECLINK_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("SECLINK_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
}

func parseMaxFrame(val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid max frame size %q: %w", val, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid max frame size %d", n)
	}
	return n, nil
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Address, "address", defaultConfig.Address, "Link address")
	flag.StringVar(&defaultConfig.Key, "key", defaultConfig.Key, "Shared key")
	flag.IntVar(&defaultConfig.MaxFrameSize, "max-frame", defaultConfig.MaxFrameSize, "Max frame size in bytes")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID, defaults to machine ID")
	flag.StringVar(&defaultConfig.RadioURL, "radio", defaultConfig.RadioURL, "Radio URL")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for telemetry")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Params builds the link parameters.
func (c *Config) Params() (link.Params, error) {
	p := link.Params{
		Address:      radio.Address(c.Address),
		MaxFrameSize: c.MaxFrameSize,
	}
	if c.Key != "" {
		p.Key = codec.MustNewKey([]byte(c.Key))
	}
	return p, p.Validate()
}

// Env is the env of a link device.
type Env struct {
	Config   *Config
	Role     link.Role
	Params   link.Params
	Radio    radio.Radio
	Log      link.DiagLog
	Reporter *link.Reporter

	adders []fx.LoopAdder
}

// NewEnv creates Env from config. Radio failures are reported as
// *link.InitError.
func (c *Config) NewEnv(role link.Role) (*Env, error) {
	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	env := &Env{
		Config: c,
		Role:   role,
		Params: params,
		Log:    link.GlogDiag{},
	}
	if env.Radio, err = c.OpenRadio(); err != nil {
		return nil, &link.InitError{Component: "Radio", Err: err}
	}
	env.track(env.Radio)
	glog.Infof("%s radio %s %s", role, c.RadioURL, c.Settings())

	env.Reporter = link.NewReporter(env.Log)
	env.Reporter.Device = c.DeviceID
	if env.Reporter.Device == "" {
		env.Reporter.Device = MachineID()
	}
	if pub := env.newPublisher(); pub != nil {
		env.Reporter.Publisher = pub
		env.track(pub)
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(role link.Role) *Env {
	env, err := c.NewEnv(role)
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

func (e *Env) newPublisher() *telemetry.MQTTPublisher {
	if e.Config.MQTTURL == "" {
		if r, ok := e.Radio.(*mqtt.Radio); ok {
			return telemetry.NewMQTTPublisher(r.Queue, e.Params.Address)
		}
		return nil
	}
	q, err := mqtt.NewQueueFromURL(e.Config.MQTTURL)
	if err == nil {
		err = q.Connect(mqtt.ConnectTimeout)
	}
	if err != nil {
		glog.Warningf("telemetry disabled: %v", err)
		return nil
	}
	e.track(&queueCloser{queue: q})
	return telemetry.NewMQTTPublisher(q, e.Params.Address)
}

// OpenWrite opens the channel the transmitter sends on.
func (e *Env) OpenWrite() (radio.Channel, error) {
	ch, err := e.Radio.OpenWrite(e.Params.Address)
	if err != nil {
		return nil, &link.InitError{Component: "Radio", Err: fmt.Errorf("open %q for write: %w", e.Params.Address, err)}
	}
	e.track(ch)
	return ch, nil
}

// OpenRead opens the channel the receiver listens on.
func (e *Env) OpenRead() (radio.Channel, error) {
	ch, err := e.Radio.OpenRead(e.Params.Address)
	if err != nil {
		return nil, &link.InitError{Component: "Radio", Err: fmt.Errorf("open %q for read: %w", e.Params.Address, err)}
	}
	e.track(ch)
	return ch, nil
}

func (e *Env) track(v interface{}) {
	if adder, ok := v.(fx.LoopAdder); ok {
		e.adders = append(e.adders, adder)
	}
}

// AddToLoop adds the radio, opened channels, telemetry and the reporter.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.adders...)
	loop.Add(e.Reporter)
}

type queueCloser struct {
	queue *mqtt.Queue
}

func (c *queueCloser) Run(ctx context.Context) error {
	<-ctx.Done()
	return c.queue.Close()
}

func (c *queueCloser) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
}
