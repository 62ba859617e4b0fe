package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/seclink/pkg/cli/console"
	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/input"
	"github.com/robotalks/seclink/pkg/link"
	"github.com/robotalks/seclink/pkg/link/env"
)

type lineSource interface {
	input.LineSource
	fx.LoopAdder
}

var readStdin bool

func init() {
	env.SetupFlags()
	flag.BoolVar(&readStdin, "stdin", readStdin, "Read messages from stdin instead of the console.")
	flag.Set("logtostderr", "true")
}

func main() {
	flag.Parse()

	runner := fx.NewRunner().HandleSignals()

	e, err := env.NewConfig().NewEnv(link.RoleTransmitter)
	if err != nil {
		env.HaltAndExit(runner.Context, nil, err)
	}
	ch, err := e.OpenWrite()
	if err != nil {
		env.HaltAndExit(runner.Context, nil, err)
	}

	var src lineSource
	if readStdin {
		src = input.NewReader(os.Stdin)
	} else {
		c := console.New(e.Params.MaxMessageLen())
		c.OnExit = runner.Stop
		src = c
	}
	tx := &link.Transmitter{Params: e.Params, Input: src, Channel: ch}
	e.Log.Infof("Secure Transmitter Ready")
	if readStdin {
		e.Log.Infof("Enter messages to send (max %d chars):", e.Params.MaxMessageLen())
	}

	loop := fx.NewLoop().Add(e, src, link.NewCycle[string](tx))
	if err := runner.Go(fx.NamedRun("transmitter", loop)).Wait(); err != nil {
		log.Fatalln(err)
	}
}
