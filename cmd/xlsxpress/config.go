package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress"
)

// config is the optional TOML configuration file. Flags override it.
type config struct {
	LogLevel string `toml:"log_level"`
	Charset  string `toml:"charset"`
	Pretty   bool   `toml:"pretty"`
	Mode     string `toml:"mode"`
}

func defaultConfig() config {
	return config{
		LogLevel: "warn",
		Mode:     string(xlsxpress.ModeStandard),
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return cfg, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, &unknownKeysError{Path: path, Keys: undecoded}
	}
	return cfg, nil
}

type unknownKeysError struct {
	Path string
	Keys []toml.Key
}

func (e *unknownKeysError) Error() string {
	msg := "unknown keys in " + e.Path + ":"
	for _, k := range e.Keys {
		msg += " " + k.String()
	}
	return msg
}

// newLogger returns a console logger on w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger(), nil
}
