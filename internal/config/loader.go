package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/crawlprobe/internal/model"
)

// DefaultConfigFile is the configuration file name looked up in the
// current and home directories.
const DefaultConfigFile = ".crawlprobe"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file. Unset keys leave the
// corresponding Config field unchanged.
type File struct {
	Requests        *int              `yaml:"requests,omitempty"`
	Workers         *int              `yaml:"workers,omitempty"`
	FollowLinks     *bool             `yaml:"followLinks,omitempty"`
	FollowRedirects *bool             `yaml:"followRedirects,omitempty"`
	Method          string            `yaml:"method,omitempty"`
	Timeout         time.Duration     `yaml:"timeout,omitempty"`
	UserAgent       string            `yaml:"userAgent,omitempty"`
	MaxBodySize     *int64            `yaml:"maxBodySize,omitempty"`
	Filters         []string          `yaml:"filters,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	Cookie          string            `yaml:"cookie,omitempty"`
	TorProxy        string            `yaml:"torProxy,omitempty"`
}

// LoadConfigFile reads and decodes the YAML file at path.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies every key present in the file onto cfg.
// Header entries are merged; filters replace the static defaults.
func (f *File) Apply(cfg *Config) error {
	if f.Requests != nil {
		cfg.Requests = *f.Requests
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.FollowLinks != nil {
		cfg.FollowLinks = *f.FollowLinks
	}
	if f.FollowRedirects != nil {
		cfg.FollowRedirects = *f.FollowRedirects
	}
	if f.Method != "" {
		m, err := model.ParseMethod(f.Method)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		cfg.Method = m
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != nil {
		cfg.MaxBodySize = *f.MaxBodySize
	}
	if f.Filters != nil {
		// An explicit empty list disables every static filter.
		cfg.Filters = make([]string, len(f.Filters))
		copy(cfg.Filters, f.Filters)
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(cfg.Headers, f.Headers)
	}
	if f.Cookie != "" {
		cfg.Cookie = f.Cookie
	}
	if f.TorProxy != "" {
		cfg.TorProxyAddress = f.TorProxy
	}
	return nil
}

// FindConfigFile returns the configuration file to load, or "" if none.
//
// An explicit path is returned as is, even when it does not exist, so
// that loading it reports ErrConfigNotFound. Otherwise the search order is
// ./.crawlprobe, $XDG_CONFIG_HOME/crawlprobe/config.yaml, ~/.crawlprobe.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
