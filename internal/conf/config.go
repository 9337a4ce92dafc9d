// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/metrics"
	"github.com/go-arcade/arcade-menu/pkg/trace"
)

// EnvPrefix prefixes every environment override, e.g. MENU_GATEWAY_BASEURL.
const EnvPrefix = "MENU"

type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

type AppConfig struct {
	Log     log.Conf
	Http    http.Http
	Gateway gateway.Conf
	Metrics metrics.MetricsConfig
	Trace   trace.Conf
	Retry   RetryConfig
}

// Validate checks the settings that cannot be defaulted.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		return errors.New("gateway base url is required")
	}
	switch strings.ToUpper(c.Gateway.UpdateMethod) {
	case "PUT", "PATCH":
	default:
		return fmt.Errorf("gateway update method must be PUT or PATCH, got %q", c.Gateway.UpdateMethod)
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry max attempts must be at least 1")
	}
	return c.Log.Validate()
}

// Loader reads the configuration file, environment and explicit overrides.
type Loader struct {
	path string
	v    *viper.Viper
}

type Option func(*Loader)

// WithOverride pins key to value above file and environment, e.g. for CLI flags.
// Empty string values are ignored.
func WithOverride(key string, value any) Option {
	return func(l *Loader) {
		if s, ok := value.(string); ok && s == "" {
			return
		}
		l.v.Set(key, value)
	}
}

// NewLoader prepares a loader for confPath. An empty path uses defaults and
// environment only.
func NewLoader(confPath string, opts ...Option) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &Loader{path: confPath, v: v}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func setDefaults(v *viper.Viper) {
	logConf := log.SetDefaults()
	v.SetDefault("log.output", logConf.Output)
	v.SetDefault("log.path", logConf.Path)
	v.SetDefault("log.filename", logConf.Filename)
	v.SetDefault("log.level", logConf.Level)
	v.SetDefault("log.keephours", logConf.KeepHours)
	v.SetDefault("log.rotatesize", logConf.RotateSize)
	v.SetDefault("log.rotatenum", logConf.RotateNum)

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.accesslog", true)
	v.SetDefault("http.shutdowntimeout", 10)

	v.SetDefault("gateway.baseurl", "http://localhost:3001")
	v.SetDefault("gateway.timeout", 0)
	v.SetDefault("gateway.updatemethod", "PATCH")

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.host", "127.0.0.1")
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("trace.enable", false)
	v.SetDefault("trace.protocol", "grpc")
	v.SetDefault("trace.endpoint", "localhost:4317")
	v.SetDefault("trace.insecure", true)

	v.SetDefault("retry.maxattempts", 3)
	v.SetDefault("retry.backoff", 500*time.Millisecond)
}

// LoadConfigFile load config file
func (l *Loader) LoadConfigFile() (*AppConfig, error) {
	if l.path != "" {
		l.v.SetConfigFile(l.path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}
	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}
	log.Debugw("config loaded", "path", l.path)
	return cfg, nil
}

func (l *Loader) unmarshal() (*AppConfig, error) {
	var cfg AppConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// WatchConfig re-reads the file on change, applies the new log level and
// hands the new config to onChange. It is a no-op without a config file.
func (l *Loader) WatchConfig(onChange func(*AppConfig)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("config file changed, reloading: %s", e.Name)
		cfg, err := l.unmarshal()
		if err != nil {
			log.Errorw("reload configuration failed", "path", e.Name, "error", err)
			return
		}
		log.SetLevel(cfg.Log.Level)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}
