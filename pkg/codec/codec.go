package codec

// Shift is added to every byte after the key is applied.
const Shift byte = 3

// Frame is a protected message: the transformed bytes followed by the
// checksum byte.
type Frame []byte

// Body returns the transformed bytes without the checksum.
func (f Frame) Body() []byte {
	if len(f) == 0 {
		return nil
	}
	return f[:len(f)-1]
}

// Checksum returns the trailing checksum byte, 0 for an empty frame.
func (f Frame) Checksum() byte {
	if len(f) == 0 {
		return 0
	}
	return f[len(f)-1]
}

// XORFold reduces b into a single byte with exclusive-or.
func XORFold(b []byte) (sum byte) {
	for _, v := range b {
		sum ^= v
	}
	return
}

// Encode protects plaintext with key. The caller is responsible for the
// length limit of the channel.
func Encode(plaintext []byte, key Key) Frame {
	key.mustBeValid()
	f := make(Frame, len(plaintext)+1)
	for i, b := range plaintext {
		f[i] = (b ^ key.At(i)) + Shift
	}
	f[len(plaintext)] = XORFold(f[:len(plaintext)])
	return f
}

// Decode verifies the checksum of frame and recovers the plaintext.
// It returns ErrEmptyFrame for a zero-length frame and ErrCorrupted when
// the checksum doesn't match.
func Decode(frame Frame, key Key) ([]byte, error) {
	key.mustBeValid()
	if len(frame) < 1 {
		return nil, ErrEmptyFrame
	}
	body := frame.Body()
	if XORFold(body) != frame.Checksum() {
		return nil, ErrCorrupted
	}
	plaintext := make([]byte, len(body))
	for i, b := range body {
		plaintext[i] = (b - Shift) ^ key.At(i)
	}
	return plaintext, nil
}
