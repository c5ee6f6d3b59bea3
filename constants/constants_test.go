package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentGetters(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TABDEX_PORT", "")
	t.Setenv("TABDEX_MAX_UPLOAD", "not a number")
	assert.Equal("8080", GetPort())
	assert.Equal(int64(MaxUploadBytes), GetMaxUpload())

	t.Setenv("TABDEX_PORT", "9000")
	t.Setenv("TABDEX_MAX_UPLOAD", "2048")
	t.Setenv("TABDEX_OUT_PATH", "/tmp/tabs")
	assert.Equal("9000", GetPort())
	assert.Equal(int64(2048), GetMaxUpload())
	assert.Equal("/tmp/tabs", GetOutDir())
}
