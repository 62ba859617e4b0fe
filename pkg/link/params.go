// Package link implements the two ends of a protected text link: a
// transmitter sending operator lines and a receiver showing them on a
// character display.
package link

import (
	"fmt"

	"github.com/robotalks/seclink/pkg/codec"
	"github.com/robotalks/seclink/pkg/radio"
)

// Defaults shared by both devices.
const (
	DefaultAddress     radio.Address = "SECURE"
	DefaultKeyMaterial               = "ArduSecure2023!"
)

// Params are the settings both ends of a link must agree on.
type Params struct {
	Address      radio.Address
	Key          codec.Key
	MaxFrameSize int
}

// DefaultParams returns the reference link parameters.
func DefaultParams() Params {
	return Params{
		Address:      DefaultAddress,
		Key:          codec.MustNewKey([]byte(DefaultKeyMaterial)),
		MaxFrameSize: radio.DefaultMaxFrameSize,
	}
}

// MaxMessageLen is the longest line accepted for transmission.
func (p Params) MaxMessageLen() int {
	return codec.MaxPlaintext(p.MaxFrameSize)
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if !p.Address.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidParams, radio.ErrInvalidAddress, p.Address)
	}
	if !p.Key.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidParams, codec.ErrEmptyKey)
	}
	if p.MaxFrameSize < codec.Overhead {
		return fmt.Errorf("%w: max frame size %d below %d", ErrInvalidParams, p.MaxFrameSize, codec.Overhead)
	}
	return nil
}
