package link

import (
	"context"
	"fmt"
	"strings"

	"github.com/robotalks/seclink/pkg/codec"
	"github.com/robotalks/seclink/pkg/input"
	"github.com/robotalks/seclink/pkg/radio"
)

// Transmitter encodes operator lines and sends them.
type Transmitter struct {
	Params  Params
	Input   input.LineSource
	Channel radio.Channel
	// Trace, if set, observes stage transitions.
	Trace func(Stage)
}

// Poll implements Step.
func (t *Transmitter) Poll() (string, bool) {
	return t.Input.TryLine()
}

// React implements Step.
func (t *Transmitter) React(ctx context.Context, line string) *Report {
	t.enter(StageLineReady)
	defer t.enter(StageIdle)

	line = strings.TrimSpace(line)
	r := &Report{Role: RoleTransmitter, Text: line, Stage: StageLineReady}
	if max := t.Params.MaxMessageLen(); len(line) > max {
		r.Kind = ReportRejected
		r.Err = fmt.Errorf("%w: %d bytes, at most %d", ErrOversized, len(line), max)
		return r
	}

	t.enter(StageEncoding)
	frame := codec.Encode([]byte(line), t.Params.Key)
	r.Frame = frame

	t.enter(StageTransmitting)
	r.Stage = StageTransmitting
	sent := t.Channel.Send(codec.AppendTerminator(frame))

	t.enter(StageReporting)
	r.Stage = StageReporting
	if sent {
		r.Kind = ReportSent
	} else {
		r.Kind, r.Err = ReportSendFailed, ErrSendFailed
	}
	return r
}

func (t *Transmitter) enter(s Stage) {
	if t.Trace != nil {
		t.Trace(s)
	}
}
