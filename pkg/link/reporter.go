package link

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/telemetry"
)

// DiagLog is the append-only diagnostic output of a device.
type DiagLog interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// GlogDiag writes diagnostics through glog.
type GlogDiag struct{}

// Infof implements DiagLog.
func (GlogDiag) Infof(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// Errorf implements DiagLog.
func (GlogDiag) Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(1, fmt.Sprintf(format, args...))
}

// Reporter consumes the reports of an iteration.
type Reporter struct {
	Log       DiagLog
	Publisher telemetry.Publisher
	Device    string
}

// NewReporter creates a Reporter writing to log.
func NewReporter(log DiagLog) *Reporter {
	return &Reporter{Log: log}
}

// Control implements Controller.
func (r *Reporter) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		if rep, ok := mc.CurrentMessage().(*Report); ok {
			mc.MessageTaken()
			r.Report(rep)
		}
	}))
	return nil
}

// Report writes a single report.
func (r *Reporter) Report(rep *Report) {
	switch rep.Kind {
	case ReportSent:
		r.Log.Infof("Sent: '%s' as encrypted: %x", rep.Text, rep.Frame)
	case ReportRejected:
		r.Log.Errorf("Error: Message too long! %v", rep.Err)
	case ReportSendFailed:
		r.Log.Errorf("Transmission failed!")
	case ReportReceived:
		r.Log.Infof("Received: %s", rep.Text)
	case ReportCorrupted:
		r.Log.Errorf("Error: Message corrupted! frame %x", rep.Frame)
	case ReportEmptyFrame:
		r.Log.Errorf("Error: protocol violation: %v", rep.Err)
	}
	if rep.DisplayErr != nil {
		r.Log.Errorf("Display error: %v", rep.DisplayErr)
	}
	if r.Publisher != nil {
		if err := r.Publisher.Publish(rep.Event(r.Device)); err != nil {
			glog.Warningf("telemetry dropped: %v", err)
		}
	}
}

// AddToLoop implements LoopAdder.
func (r *Reporter) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, r)
}
