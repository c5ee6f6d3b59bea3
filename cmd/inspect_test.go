package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jsphweid/tabdex/decode"
	"github.com/jsphweid/tabdex/gptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, inspect(context.Background(), &out, riff().Bytes(500), 5))

	text := out.String()
	assert := assert.New(t)
	assert.Contains(text, "Riff by Someone\n")
	assert.Contains(text, "format: gp5")
	assert.Contains(text, "bars: 1, length 2 seconds")
	assert.Contains(text, "1. Rhythm")
	assert.Contains(text, "[E A D G B E]")
	assert.Contains(text, "chords:\n  40 47 52 x1")
}

func TestInspectTopZero(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, inspect(context.Background(), &out, gptest.GP7([]byte(gptest.ScoreGPIF)), 0))

	text := out.String()
	assert := assert.New(t)
	assert.Contains(text, "Night Drive by The Examples (Demos)")
	assert.NotContains(text, "chords:")
}

func TestInspectMalformed(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, inspect(context.Background(), &out, []byte("junk"), 5))
	assert.Empty(t, out.String())
}

func TestSongLength(t *testing.T) {
	score, err := decode.Decode(context.Background(), riff().Bytes(500), decode.Options{})
	require.NoError(t, err)
	score.TempoChanges = nil
	assert.Equal(t, 2*time.Second, songLength(score))

	score.Tempo = 60
	assert.Equal(t, 4*time.Second, songLength(score))
}
