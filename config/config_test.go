package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("8080", cfg.Server.Port)
	assert.Equal(int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(960, cfg.Decode.TicksPerBeat)
	assert.Equal("json", cfg.Output.Format)
	assert.Equal("", cfg.AWS.Bucket)
}

func TestFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabdex.yaml")
	doc := `
debug: true
server:
  port: "9000"
  max_upload_bytes: 1024
decode:
  ticks_per_beat: 480
output:
  case: camel
  workers: 0
aws:
  bucket: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("TABDEX_PORT", "9100")
	t.Setenv("TABDEX_S3_BUCKET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.True(cfg.Debug)
	assert.Equal("9100", cfg.Server.Port)
	assert.Equal(int64(1024), cfg.Server.MaxUploadBytes)
	assert.Equal(480, cfg.Decode.TicksPerBeat)
	assert.Equal("camel", cfg.Output.Case)
	assert.Equal(1, cfg.Output.Workers)
	assert.Equal("from-env", cfg.AWS.Bucket)
	// untouched sections keep their defaults
	assert.Equal("windows-1252", cfg.Decode.Encoding)
}

func TestRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	for name, doc := range map[string]string{
		"format": "output:\n  format: xml\n",
		"case":   "output:\n  case: kebab\n",
		"yaml":   "server: [",
	} {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestAcceptsEveryOutputFormat(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"json", "yaml", "midi"} {
		path := filepath.Join(dir, format+".yaml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  format: "+format+"\n"), 0o644))

		c, err := Load(path)
		require.NoError(t, err, format)
		assert.Equal(t, format, c.Output.Format)
	}
}
