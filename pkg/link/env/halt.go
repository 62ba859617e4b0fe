package env

import (
	"context"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/seclink/pkg/display"
	"github.com/robotalks/seclink/pkg/link"
)

// HaltAndExit parks the device after a startup failure and exits the
// process with a failure status once ctx is done. disp may be nil.
func HaltAndExit(ctx context.Context, disp display.Display, err error) {
	link.Halt(ctx, link.GlogDiag{}, disp, err)
	glog.Flush()
	os.Exit(1)
}
