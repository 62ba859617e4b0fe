package link

import (
	"context"
	"errors"

	"github.com/robotalks/seclink/pkg/display"
)

// Halt parks a device that failed to start. The failure is logged and,
// when disp is usable, shown on row 1. Nothing else runs until ctx is done;
// the returned error always wraps err.
func Halt(ctx context.Context, log DiagLog, disp display.Display, err error) error {
	log.Errorf("%v", err)
	if disp != nil {
		banner := "Radio Error!"
		var initErr *InitError
		if errors.As(err, &initErr) {
			banner = initErr.Banner()
		}
		if derr := disp.WriteLine(1, banner); derr != nil {
			log.Errorf("Display error: %v", derr)
		}
	}
	<-ctx.Done()
	return err
}
