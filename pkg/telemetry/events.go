// Package telemetry publishes what each device does, for monitoring a link
// from outside.
package telemetry

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// EventKind classifies a LinkEvent.
type EventKind int32

// Event kinds.
const (
	EventUnknown EventKind = iota
	EventSent
	EventRejected
	EventSendFailed
	EventReceived
	EventCorrupted
	EventEmptyFrame
)

var eventKindNames = map[EventKind]string{
	EventUnknown:    "unknown",
	EventSent:       "sent",
	EventRejected:   "rejected",
	EventSendFailed: "send-failed",
	EventReceived:   "received",
	EventCorrupted:  "corrupted",
	EventEmptyFrame: "empty-frame",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int32(k))
}

// LinkEvent reports one completed cycle of a device.
type LinkEvent struct {
	Device       string    `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Role         string    `protobuf:"bytes,2,opt,name=role,proto3" json:"role,omitempty"`
	Kind         EventKind `protobuf:"varint,3,opt,name=kind,proto3" json:"kind,omitempty"`
	Text         string    `protobuf:"bytes,4,opt,name=text,proto3" json:"text,omitempty"`
	Frame        []byte    `protobuf:"bytes,5,opt,name=frame,proto3" json:"frame,omitempty"`
	Error        string    `protobuf:"bytes,6,opt,name=error,proto3" json:"error,omitempty"`
	TimeUnixNano int64     `protobuf:"varint,7,opt,name=time_unix_nano,proto3" json:"time_unix_nano,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *LinkEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkEvent) Reset() { *m = LinkEvent{} }

// String implements proto.Message.
func (m *LinkEvent) String() string { return proto.CompactTextString(m) }

// Encode encodes the event to bytes.
func (m *LinkEvent) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeEvent decodes bytes into a LinkEvent.
func DecodeEvent(data []byte) (*LinkEvent, error) {
	var ev LinkEvent
	if err := proto.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
