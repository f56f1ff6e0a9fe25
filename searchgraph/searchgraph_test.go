package searchgraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	arcs := []Arc{
		{ID: 1, Score: 0, Total: -2.5},
		{ID: 2, Back: 1, Output: "the cat", Start: 0, End: 2, Score: -1.5, Total: -1.5},
		{ID: 3, Back: 1, Alt: 2, Output: "a cat", Start: 0, End: 2, Score: -2, Total: -2},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arcs))
	require.NotZero(t, buf.Len())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, arcs, got)
}

func TestWriteRead_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}
