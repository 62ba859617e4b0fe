package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextLine(t *testing.T, c *Console) string {
	line, ok := c.TryLine()
	require.True(t, ok)
	return line
}

func TestSendCommand(t *testing.T) {
	c := New(30)
	require.NoError(t, c.Handle("/send HELLO WORLD"))
	assert.Equal(t, "HELLO WORLD", nextLine(t, c))

	require.NoError(t, c.Handle(`/s say  "hi"`))
	assert.Equal(t, `say  "hi"`, nextLine(t, c))

	require.NoError(t, c.Handle("/send /limit"))
	assert.Equal(t, "/limit", nextLine(t, c))

	require.NoError(t, c.Handle("/send help"))
	assert.Equal(t, "help", nextLine(t, c))

	assert.Error(t, c.Handle("/send"))
	_, ok := c.TryLine()
	assert.False(t, ok)
}

func TestFreeTextKeptAsTyped(t *testing.T) {
	c := New(30)
	for _, text := range []string{
		"don't panic",
		"a  b   c",
		`she said "hi"`,
		`back\slash`,
		"help me",
		"exit left",
	} {
		require.NoError(t, c.Handle(text))
		assert.Equal(t, text, nextLine(t, c))
	}
}

func TestBlankLineIgnored(t *testing.T) {
	c := New(30)
	require.NoError(t, c.Handle("   "))
	_, ok := c.TryLine()
	assert.False(t, ok)
}

func TestUnknownCommand(t *testing.T) {
	c := New(30)
	assert.Error(t, c.Handle("/bogus"))
	_, ok := c.TryLine()
	assert.False(t, ok)
}

func TestExit(t *testing.T) {
	c := New(30)
	assert.ErrorIs(t, c.Handle("/exit"), errExit)
	assert.ErrorIs(t, c.Handle("/quit"), errExit)
}

func TestLimitCommand(t *testing.T) {
	c := New(30)
	var out bytes.Buffer
	c.Shell.SetOut(&out)
	require.NoError(t, c.Handle("/limit"))
	assert.Equal(t, "max 30 chars\n", out.String())
}
