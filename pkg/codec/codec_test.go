package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = []Key{
	MustNewKey([]byte("ArduSecure2023!")),
	MustNewKey([]byte("KEY")),
	MustNewKey([]byte{0}),
	MustNewKey([]byte{0xff, 0xfd, 0x00, 0x80}),
}

func TestEncodeKnownFrame(t *testing.T) {
	frame := Encode([]byte("HELLO"), MustNewKey([]byte("KEY")))
	// ('H'^'K')+3, ('E'^'E')+3, ('L'^'Y')+3, ('L'^'K')+3, ('O'^'E')+3, checksum
	require.Equal(t, Frame{0x06, 0x03, 0x18, 0x0a, 0x0d, 0x1a}, frame)
	text, err := Decode(frame, MustNewKey([]byte("KEY")))
	require.NoError(t, err)
	require.Equal(t, "HELLO", string(text))
}

func TestEncodeEmpty(t *testing.T) {
	for _, key := range testKeys {
		frame := Encode(nil, key)
		require.Equal(t, Frame{0}, frame)
		text, err := Decode(frame, key)
		require.NoError(t, err)
		require.Empty(t, text)
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	_, err := Decode(nil, testKeys[0])
	require.ErrorIs(t, err, ErrEmptyFrame)
	_, err = Decode(Frame{}, testKeys[0])
	require.ErrorIs(t, err, ErrEmptyFrame)
	assert.NotErrorIs(t, err, ErrCorrupted)
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, key := range testKeys {
		for n := 0; n <= MaxPlaintext(32); n++ {
			for round := 0; round < 8; round++ {
				plaintext := make([]byte, n)
				rnd.Read(plaintext)
				frame := Encode(plaintext, key)
				require.Len(t, frame, n+1)
				text, err := Decode(frame, key)
				require.NoError(t, err)
				require.Equal(t, plaintext, text)
			}
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	for _, key := range testKeys {
		msg := []byte("same input, same frame")
		require.Equal(t, Encode(msg, key), Encode(msg, key))
	}
}

func TestEncodeDoesNotModifyInput(t *testing.T) {
	msg := []byte("untouched")
	Encode(msg, testKeys[0])
	require.Equal(t, "untouched", string(msg))
}

func TestChecksumCoversEncodedBytes(t *testing.T) {
	msg := []byte("checksum")
	frame := Encode(msg, testKeys[0])
	require.Equal(t, XORFold(frame.Body()), frame.Checksum())
	require.Equal(t, byte(0), XORFold(frame))
}

func TestSingleBitFlipDetected(t *testing.T) {
	frame := Encode([]byte("Bit flips are caught"), testKeys[0])
	for i := range frame {
		for bit := uint(0); bit < 8; bit++ {
			corrupted := append(Frame(nil), frame...)
			corrupted[i] ^= 1 << bit
			_, err := Decode(corrupted, testKeys[0])
			require.ErrorIs(t, err, ErrCorrupted, "byte %d bit %d", i, bit)
		}
	}
}

func TestCancellingCorruptionUndetected(t *testing.T) {
	// The same bit flipped in two bytes cancels in the XOR-fold.
	frame := Encode([]byte("HELLO"), testKeys[1])
	frame[0] ^= 0x10
	frame[3] ^= 0x10
	text, err := Decode(frame, testKeys[1])
	require.NoError(t, err)
	require.NotEqual(t, "HELLO", string(text))
}

func TestKeyMismatchUndetected(t *testing.T) {
	frame := Encode([]byte("HELLO"), MustNewKey([]byte("KEY")))
	text, err := Decode(frame, MustNewKey([]byte("KEX")))
	require.NoError(t, err)
	require.NotEqual(t, "HELLO", string(text))
}

func TestZeroKeyPanics(t *testing.T) {
	require.PanicsWithValue(t, ErrEmptyKey, func() { Encode([]byte("x"), Key{}) })
	require.PanicsWithValue(t, ErrEmptyKey, func() { Decode(Frame{0}, Key{}) })
}

func TestFrameAccessors(t *testing.T) {
	var empty Frame
	require.Nil(t, empty.Body())
	require.Equal(t, byte(0), empty.Checksum())
	f := Frame{1, 2, 3}
	require.Equal(t, []byte{1, 2}, f.Body())
	require.Equal(t, byte(3), f.Checksum())
}
