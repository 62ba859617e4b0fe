package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/seclink/pkg/display"
	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/link"
	"github.com/robotalks/seclink/pkg/link/env"
)

func init() {
	env.SetupFlags()
	flag.Set("logtostderr", "true")
}

func main() {
	flag.Parse()
	runner := fx.NewRunner().HandleSignals()

	panel := display.NewPanel(os.Stdout)
	if err := panel.Init(); err != nil {
		env.HaltAndExit(runner.Context, nil, &link.InitError{Component: "Display", Err: err})
	}
	if err := panel.WriteLine(0, link.SplashText); err != nil {
		env.HaltAndExit(runner.Context, nil, &link.InitError{Component: "Display", Err: err})
	}

	e, err := env.NewConfig().NewEnv(link.RoleReceiver)
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}
	ch, err := e.OpenRead()
	if err != nil {
		env.HaltAndExit(runner.Context, panel, err)
	}

	rx := &link.Receiver{Params: e.Params, Channel: ch, Display: panel}
	if err := rx.Splash(); err != nil {
		env.HaltAndExit(runner.Context, nil, &link.InitError{Component: "Display", Err: err})
	}
	e.Log.Infof("Secure Receiver Ready")

	loop := fx.NewLoop().Add(e, link.NewCycle[[]byte](rx))
	if err := runner.Go(fx.NamedRun("receiver", loop)).Wait(); err != nil {
		log.Fatalln(err)
	}
}
