package link

import (
	"time"

	"github.com/robotalks/seclink/pkg/telemetry"
)

// Role is the part a device plays on the link.
type Role string

// Roles.
const (
	RoleTransmitter Role = "transmitter"
	RoleReceiver    Role = "receiver"
)

// Stage is the step a device cycle is in.
type Stage int

// Stages of the transmitter and the receiver.
const (
	StageIdle Stage = iota
	StageLineReady
	StageEncoding
	StageTransmitting
	StageReporting
	StageFrameAvailable
	StageDecoding
	StageDisplaying
)

var stageNames = [...]string{
	"idle",
	"line-ready",
	"encoding",
	"transmitting",
	"reporting",
	"frame-available",
	"decoding",
	"displaying",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// ReportKind is the outcome of a cycle.
type ReportKind int

// Outcomes.
const (
	ReportSent ReportKind = iota + 1
	ReportRejected
	ReportSendFailed
	ReportReceived
	ReportCorrupted
	ReportEmptyFrame
)

var reportEvents = map[ReportKind]telemetry.EventKind{
	ReportSent:       telemetry.EventSent,
	ReportRejected:   telemetry.EventRejected,
	ReportSendFailed: telemetry.EventSendFailed,
	ReportReceived:   telemetry.EventReceived,
	ReportCorrupted:  telemetry.EventCorrupted,
	ReportEmptyFrame: telemetry.EventEmptyFrame,
}

func (k ReportKind) String() string {
	return reportEvents[k].String()
}

// Report is produced by every completed cycle.
type Report struct {
	Role  Role
	Kind  ReportKind
	Stage Stage
	Text  string
	// Frame is the encoded frame sent, or the wire frame received.
	Frame []byte
	Err   error
	// DisplayErr is set when the display failed to show the outcome.
	DisplayErr error
	Time       time.Time
}

// Event converts the report into a telemetry event.
func (r *Report) Event(device string) *telemetry.LinkEvent {
	ev := &telemetry.LinkEvent{
		Device:       device,
		Role:         string(r.Role),
		Kind:         reportEvents[r.Kind],
		Text:         r.Text,
		Frame:        r.Frame,
		TimeUnixNano: r.Time.UnixNano(),
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	return ev
}
