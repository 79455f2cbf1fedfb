package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	EventLogName      = "events.log"
)

type Configuration struct {
	configurationDir string
	configFs         afero.Fs

	// EventLog is the newline delimited JSON event log path, relative to
	// the configuration directory unless absolute. Empty disables logging.
	EventLog string `json:"event_log"`

	// MaxArgs caps the number of argv entries per command.
	MaxArgs int `json:"max_args" validate:"gt=0"`

	// MaxInput caps the input line length in bytes.
	MaxInput int `json:"max_input" validate:"gt=0"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// EventLogPath returns the location of the event log, or "" when event
// logging is disabled.
func (c *Configuration) EventLogPath() string {
	switch {
	case c.EventLog == "":
		return ""
	case filepath.IsAbs(c.EventLog):
		return c.EventLog
	default:
		return filepath.Join(c.configurationDir, c.EventLog)
	}
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLogPath(), os.O_RDONLY, 0600)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
