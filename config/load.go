/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/internal/logging"
	"dirpx.dev/extpoint/overlay"
)

// EnvPrefix prefixes environment overrides, e.g. EXTPOINT_DISCOVERY_WORKERS.
const EnvPrefix = "EXTPOINT"

// ErrInvalidSettings is returned for settings that cannot be applied.
var ErrInvalidSettings = errors.New("extpoint(config): invalid settings")

// Settings is the file and environment form of the configuration.
type Settings struct {
	Discovery DiscoverySettings `mapstructure:"discovery"`
	Log       LogSettings       `mapstructure:"log"`
	Overlay   OverlaySettings   `mapstructure:"overlay"`
}

type DiscoverySettings struct {
	Workers          int           `mapstructure:"workers"`
	CandidateTimeout time.Duration `mapstructure:"candidate_timeout"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OverlaySettings struct {
	Path string `mapstructure:"path"`
}

// ReadSettings reads path, when not empty, and applies EXTPOINT_*
// environment overrides on top of the defaults.
func ReadSettings(path string) (Settings, error) {
	v := viper.New()

	// default values
	v.SetDefault("discovery.workers", DefaultWorkers)
	v.SetDefault("discovery.candidate_timeout", DefaultCandidateTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("overlay.path", "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("extpoint(config): read %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("extpoint(config): unmarshal: %w", err)
	}
	if s.Discovery.Workers < 1 {
		return Settings{}, fmt.Errorf("%w: discovery.workers must be positive, got %d", ErrInvalidSettings, s.Discovery.Workers)
	}
	if s.Discovery.CandidateTimeout < 0 {
		return Settings{}, fmt.Errorf("%w: discovery.candidate_timeout must not be negative", ErrInvalidSettings)
	}
	return s, nil
}

// Build turns s into an apis.Config logging to w. A configured overlay is
// loaded and installed as a filter.
func (s Settings) Build(w io.Writer) (apis.Config, error) {
	opts := []Option{
		WithWorkers(s.Discovery.Workers),
		WithCandidateTimeout(s.Discovery.CandidateTimeout),
		WithLogger(logging.New(s.Log.Level, s.Log.Format, w)),
	}
	if s.Overlay.Path != "" {
		o, err := overlay.Load(s.Overlay.Path)
		if err != nil {
			return apis.Config{}, err
		}
		opts = append(opts, WithFilters(o))
	}
	return NewConfig(opts...), nil
}

// Load reads the settings at path and builds a configuration logging to
// standard error.
func Load(path string) (apis.Config, error) {
	s, err := ReadSettings(path)
	if err != nil {
		return apis.Config{}, err
	}
	return s.Build(os.Stderr)
}
