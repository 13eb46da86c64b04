package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  spaced  \n\nmaybe\nYES\n0\n7\n2\nlast"), &out, DefaultStyles())

	got, err := p.Ask("Name", "def")
	require.NoError(t, err)
	assert.Equal(t, "spaced", got)

	got, err = p.Ask("Name", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", got)

	ok, err := p.Confirm("Sure?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Please answer y or n.")

	n, err := p.ChooseIndex("Pick", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "between 1 and 3")

	got, err = p.Ask("Final", "")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "a final line without newline is read")

	_, err = p.Ask("More", "x")
	assert.ErrorIs(t, err, ErrNoInput)
}
