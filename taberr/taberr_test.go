package taberr

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := Malformedf("tracks", 12, "string count %d", 9)
	wrapped := errors.Wrap(errors.Wrapf(err, "track %d", 2), "decoding gp5")

	assert := assert.New(t)
	assert.Equal(Malformed, KindOf(wrapped))
	assert.Contains(wrapped.Error(), "malformed tracks at offset 12: string count 9")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(io.EOF))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, Malformed, "zip", "cannot open container")

	assert := assert.New(t)
	assert.Equal(Malformed, KindOf(err))
	assert.True(errors.Is(err, io.ErrUnexpectedEOF))
	assert.NotContains(err.Error(), "offset")
	assert.Nil(Wrap(nil, Malformed, "zip", "nothing"))
}
