// Package config loads settings from an optional YAML file and the
// environment. Command line flags are applied on top by the caller.
package config

import (
	"os"

	"github.com/jsphweid/tabdex/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port           string  `yaml:"port"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes"`
	// RateLimit is requests per second across the process; zero disables it.
	RateLimit      float64 `yaml:"rate_limit"`
	Burst          int     `yaml:"burst"`
}

type Decode struct {
	TicksPerBeat int    `yaml:"ticks_per_beat"`
	Encoding     string `yaml:"encoding"`
}

type Output struct {
	Dir     string `yaml:"dir"`
	Case    string `yaml:"case"`
	Format  string `yaml:"format"`
	Indent  bool   `yaml:"indent"`
	Workers int    `yaml:"workers"`
}

type AWS struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	// Bucket receives converted documents when set.
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	// CatalogTable receives one metadata item per converted file when set.
	CatalogTable string `yaml:"catalog_table"`
}

type Config struct {
	Debug  bool   `yaml:"debug"`
	Server Server `yaml:"server"`
	Decode Decode `yaml:"decode"`
	Output Output `yaml:"output"`
	AWS    AWS    `yaml:"aws"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Port:           "8080",
			MaxUploadBytes: constants.MaxUploadBytes,
			RateLimit:      20,
			Burst:          40,
		},
		Decode: Decode{TicksPerBeat: 960, Encoding: "windows-1252"},
		Output: Output{
			Dir:     "./out",
			Case:    "snake",
			Format:  "json",
			Workers: constants.DefaultWorkers,
		},
		AWS: AWS{Region: "us-east-1"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if os.Getenv("TABDEX_PORT") != "" {
		c.Server.Port = constants.GetPort()
	}
	if os.Getenv("TABDEX_MAX_UPLOAD") != "" {
		c.Server.MaxUploadBytes = constants.GetMaxUpload()
	}
	if os.Getenv("TABDEX_OUT_PATH") != "" {
		c.Output.Dir = constants.GetOutDir()
	}
	if os.Getenv("TABDEX_AWS_REGION") != "" {
		c.AWS.Region = constants.GetAWSRegion()
	}
	if v := constants.GetAWSEndpoint(); v != "" {
		c.AWS.Endpoint = v
	}
	if v := constants.GetS3Bucket(); v != "" {
		c.AWS.Bucket = v
	}
	if v := constants.GetCatalogTable(); v != "" {
		c.AWS.CatalogTable = v
	}
}

func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml", "midi":
	default:
		return errors.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Output.Case {
	case "snake", "camel":
	default:
		return errors.Errorf("unknown key case %q", c.Output.Case)
	}
	if c.Decode.TicksPerBeat < 0 {
		return errors.Errorf("ticks per beat must not be negative, got %d", c.Decode.TicksPerBeat)
	}
	if c.Output.Workers < 1 {
		c.Output.Workers = 1
	}
	return nil
}
