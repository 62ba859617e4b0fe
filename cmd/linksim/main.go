package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/seclink/pkg/display"
	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/input"
	"github.com/robotalks/seclink/pkg/link"
	"github.com/robotalks/seclink/pkg/link/env"
	"github.com/robotalks/seclink/pkg/radio/mem"
)

var noise float64

func init() {
	env.SetupFlags()
	flag.Float64Var(&noise, "noise", noise, "Probability a frame gets a bit flipped in flight.")
	flag.Set("logtostderr", "true")
}

// flipBits corrupts frames with probability p.
func flipBits(p float64) func([]byte) []byte {
	return func(frame []byte) []byte {
		if len(frame) == 0 || rand.Float64() >= p {
			return frame
		}
		n := rand.Intn(len(frame) * 8)
		frame[n/8] ^= 1 << uint(n%8)
		glog.V(1).Infof("noise flipped bit %d", n)
		return frame
	}
}

func main() {
	flag.Parse()
	runner := fx.NewRunner().HandleSignals()

	conf := env.NewConfig()
	conf.RadioURL = "mem:"
	conf.Air = mem.NewAir(conf.Settings())
	if noise > 0 {
		conf.Air.Tamper = flipBits(noise)
	}

	panel := display.NewPanel(os.Stdout)
	if err := panel.Init(); err != nil {
		env.HaltAndExit(runner.Context, nil, &link.InitError{Component: "Display", Err: err})
	}

	rxEnv, err := conf.NewEnv(link.RoleReceiver)
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}
	rxCh, err := rxEnv.OpenRead()
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}
	txEnv, err := conf.NewEnv(link.RoleTransmitter)
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}
	txCh, err := txEnv.OpenWrite()
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}

	rx := &link.Receiver{Params: rxEnv.Params, Channel: rxCh, Display: panel}
	if err := rx.Splash(); err != nil {
		env.HaltAndExit(runner.Context, nil, &link.InitError{Component: "Display", Err: err})
	}
	lines := input.NewReader(os.Stdin)
	tx := &link.Transmitter{Params: txEnv.Params, Input: lines, Channel: txCh}
	rxEnv.Log.Infof("Secure Receiver Ready")
	txEnv.Log.Infof("Secure Transmitter Ready")
	txEnv.Log.Infof("Enter messages to send (max %d chars):", txEnv.Params.MaxMessageLen())

	loop := fx.NewLoop().Add(txEnv, rxEnv, lines)
	loop.AddController(fx.PrLvPoll, link.NewCycle[string](tx))
	loop.AddController(fx.PrLvPoll+1, link.NewCycle[[]byte](rx))
	if err := runner.Go(fx.NamedRun("linksim", loop)).Wait(); err != nil {
		log.Fatalln(err)
	}
}
