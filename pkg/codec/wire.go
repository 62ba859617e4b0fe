package codec

// Terminator follows every frame on the wire.
const Terminator byte = 0

// Overhead is the number of bytes a frame adds to the plaintext on the wire:
// the checksum and the terminator.
const Overhead = 2

// MaxPlaintext returns the longest plaintext fitting in maxFrameSize bytes
// on the wire.
func MaxPlaintext(maxFrameSize int) int {
	if maxFrameSize < Overhead {
		return 0
	}
	return maxFrameSize - Overhead
}

// AppendTerminator returns the wire form of frame.
func AppendTerminator(frame Frame) []byte {
	wire := make([]byte, len(frame)+1)
	copy(wire, frame)
	wire[len(frame)] = Terminator
	return wire
}

// StripTerminator removes exactly one trailing terminator. Without one the
// data was cut short by the channel and is returned unchanged; it normally
// fails the checksum afterwards.
func StripTerminator(wire []byte) Frame {
	if n := len(wire); n > 0 && wire[n-1] == Terminator {
		return Frame(wire[:n-1])
	}
	return Frame(wire)
}
