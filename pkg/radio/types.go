// Package radio defines the frame channel between the two devices and the
// fixed radio settings.
package radio

import (
	"errors"
	"fmt"
)

// Address identifies the link. Both ends must open the same address.
type Address string

// IsValid checks the address is usable.
func (a Address) IsValid() bool {
	return a != ""
}

// Channel sends and receives frames. Neither operation blocks.
type Channel interface {
	// Send transmits one frame and reports whether it was accepted.
	Send([]byte) bool
	// TryReceive returns the next received frame, if any. Frames longer
	// than the maximum frame size are truncated before they get here.
	TryReceive() ([]byte, bool)
}

// Radio opens channels on an address.
type Radio interface {
	OpenWrite(Address) (Channel, error)
	OpenRead(Address) (Channel, error)
}

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// PowerLevel is the transmit power.
type PowerLevel int

// Power levels.
const (
	PowerMin PowerLevel = iota
	PowerLow
	PowerHigh
	PowerMax
)

func (p PowerLevel) String() string {
	switch p {
	case PowerMin:
		return "min"
	case PowerLow:
		return "low"
	case PowerHigh:
		return "high"
	case PowerMax:
		return "max"
	}
	return fmt.Sprintf("power(%d)", int(p))
}

// DataRate is the air data rate.
type DataRate int

// Data rates.
const (
	Rate250Kbps DataRate = iota
	Rate1Mbps
	Rate2Mbps
)

func (r DataRate) String() string {
	switch r {
	case Rate250Kbps:
		return "250kbps"
	case Rate1Mbps:
		return "1mbps"
	case Rate2Mbps:
		return "2mbps"
	}
	return fmt.Sprintf("rate(%d)", int(r))
}

// DefaultMaxFrameSize is the payload limit of the reference radio.
const DefaultMaxFrameSize = 32

// DefaultQueueDepth is how many received frames are held until polled.
const DefaultQueueDepth = 3

// Settings are the operational parameters of a radio. They are fixed for
// the lifetime of the device.
type Settings struct {
	Power        PowerLevel
	Rate         DataRate
	MaxFrameSize int
}

// DefaultSettings trades speed for range and reliability.
var DefaultSettings = Settings{
	Power:        PowerMax,
	Rate:         Rate250Kbps,
	MaxFrameSize: DefaultMaxFrameSize,
}

func (s Settings) String() string {
	return fmt.Sprintf("power=%s rate=%s max-frame=%d", s.Power, s.Rate, s.MaxFrameSize)
}

var (
	// ErrInvalidAddress indicates an empty address.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrAddressMismatch indicates the peer opened a different address.
	ErrAddressMismatch = errors.New("address mismatch")
	// ErrPacketTooLarge indicates a packet exceeds what a transport accepts.
	ErrPacketTooLarge = errors.New("packet too large")
)

// Bound returns a copy of frame truncated to maxFrameSize bytes. A
// non-positive maxFrameSize means no limit.
func Bound(frame []byte, maxFrameSize int) []byte {
	if maxFrameSize > 0 && len(frame) > maxFrameSize {
		frame = frame[:maxFrameSize]
	}
	return append([]byte(nil), frame...)
}
