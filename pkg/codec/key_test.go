package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	_, err := NewKey(nil)
	require.ErrorIs(t, err, ErrEmptyKey)
	_, err = NewKey([]byte{})
	require.ErrorIs(t, err, ErrEmptyKey)
	require.Panics(t, func() { MustNewKey(nil) })

	src := []byte("KEY")
	k, err := NewKey(src)
	require.NoError(t, err)
	src[0] = 'X'
	require.Equal(t, byte('K'), k.At(0))
	require.Equal(t, 3, k.Len())
	require.True(t, k.IsValid())
	require.False(t, Key{}.IsValid())
}

func TestKeyAtRepeats(t *testing.T) {
	k := MustNewKey([]byte("KEY"))
	expect := "KEYKEYKEY"
	for i := range expect {
		require.Equal(t, expect[i], k.At(i))
	}
}

func TestKeyEqual(t *testing.T) {
	require.True(t, MustNewKey([]byte("abc")).Equal(MustNewKey([]byte("abc"))))
	require.False(t, MustNewKey([]byte("abc")).Equal(MustNewKey([]byte("abd"))))
	require.False(t, MustNewKey([]byte("abc")).Equal(MustNewKey([]byte("ab"))))
}
