package link

import (
	"context"
	"errors"

	"github.com/robotalks/seclink/pkg/codec"
	"github.com/robotalks/seclink/pkg/display"
	"github.com/robotalks/seclink/pkg/radio"
)

// Display texts.
const (
	SplashText      = "Secure Receiver"
	ReadyText       = "Ready..."
	HeaderText      = "Received:"
	BadTransmission = "BAD TRANSMISSION"
	EmptyFrameText  = "EMPTY FRAME"
)

// Receiver decodes frames and shows them on the display.
type Receiver struct {
	Params  Params
	Channel radio.Channel
	Display display.Display
	// Trace, if set, observes stage transitions.
	Trace func(Stage)
}

// Poll implements Step.
func (r *Receiver) Poll() ([]byte, bool) {
	return r.Channel.TryReceive()
}

// React implements Step.
func (r *Receiver) React(ctx context.Context, wire []byte) *Report {
	r.enter(StageFrameAvailable)
	defer r.enter(StageIdle)

	rep := &Report{Role: RoleReceiver, Frame: wire}

	r.enter(StageDecoding)
	text, err := codec.Decode(codec.StripTerminator(wire), r.Params.Key)
	rep.Err = err

	var shown string
	switch {
	case err == nil:
		rep.Kind, rep.Text = ReportReceived, string(text)
		shown = display.Fit(rep.Text, r.Display.Width())
	case errors.Is(err, codec.ErrCorrupted):
		rep.Kind, shown = ReportCorrupted, BadTransmission
	default:
		rep.Kind, shown = ReportEmptyFrame, EmptyFrameText
	}

	r.enter(StageDisplaying)
	rep.Stage = StageDisplaying
	rep.DisplayErr = r.show(HeaderText, shown)
	return rep
}

// Splash shows the startup screen.
func (r *Receiver) Splash() error {
	return r.show(SplashText, ReadyText)
}

func (r *Receiver) show(header, text string) error {
	if err := r.Display.Clear(); err != nil {
		return err
	}
	if err := r.Display.WriteLine(0, header); err != nil {
		return err
	}
	return r.Display.WriteLine(1, text)
}

func (r *Receiver) enter(s Stage) {
	if r.Trace != nil {
		r.Trace(s)
	}
}
