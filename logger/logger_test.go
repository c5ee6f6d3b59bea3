package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, false)
	defer Setup(os.Stderr, false)

	Infof("decoded %d bars", 3)
	Debugf("hidden")
	Errorf("failed: %s", "boom")

	assert := assert.New(t)
	out := buf.String()
	assert.Contains(out, "INFO decoded 3 bars")
	assert.Contains(out, "ERROR failed: boom")
	assert.NotContains(out, "hidden")

	buf.Reset()
	Setup(&buf, true)
	Debugf("shown")
	assert.Contains(buf.String(), "DEBUG shown")
}

func TestSilentKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)
	SetSilent(true)
	defer func() {
		SetSilent(false)
		Setup(os.Stderr, false)
	}()

	Infof("quiet")
	Warnf("quiet")
	Debugf("quiet")
	Errorf("loud")

	assert := assert.New(t)
	assert.NotContains(buf.String(), "quiet")
	assert.Contains(buf.String(), "ERROR loud")
}
