package pkg

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManouchehrRasoulli/globwatcher/pkg/pattern"
	"github.com/ManouchehrRasoulli/globwatcher/pkg/watcher"
)

type LoaderType string

const (
	LoaderNone   LoaderType = "none"
	LoaderBytes  LoaderType = "bytes"
	LoaderText   LoaderType = "text"
	LoaderYAML   LoaderType = "yaml"
	LoaderDigest LoaderType = "digest"
)

var (
	ErrEmptyPattern  = errors.New("watch pattern is empty")
	ErrInvalidLoader = errors.New("invalid loader")
	ErrNoWatches     = errors.New("no watches configured")
)

const (
	DefaultTick     = 100 * time.Millisecond
	DefaultInterval = time.Second
)

type WatchConfig struct {
	Pattern    string        `yaml:"pattern"`
	Interval   time.Duration `yaml:"interval"`
	Exclude    []string      `yaml:"exclude"`
	Extensions []string      `yaml:"extensions"`
	Types      []string      `yaml:"types"`
	Absolute   bool          `yaml:"absolute"`
	Removals   bool          `yaml:"removals"`
	CatchUp    bool          `yaml:"catchup"`
	Loader     LoaderType    `yaml:"loader"`
}

type Config struct {
	Root    string        `yaml:"root"`
	Tick    time.Duration `yaml:"tick"`
	Watches []WatchConfig `yaml:"watches"`
}

func ReadConfig(file string) (*Config, error) {
	yfile, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	c := Config{}
	err = yaml.Unmarshal(yfile, &c)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return &c, nil
}

// Validate fills defaults in place and reports every invalid watch.
func (c *Config) Validate() error {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if len(c.Watches) == 0 {
		return ErrNoWatches
	}

	var errs []error
	for i := range c.Watches {
		w := &c.Watches[i]
		if w.Pattern == "" {
			errs = append(errs, fmt.Errorf("watch %d: %w", i, ErrEmptyPattern))
		}
		if w.Interval <= 0 {
			w.Interval = DefaultInterval
		}
		if w.Exclude == nil {
			w.Exclude = pattern.DefaultFilterOptions().Excludes
		}
		switch w.Loader {
		case "":
			w.Loader = LoaderNone
		case LoaderNone, LoaderBytes, LoaderText, LoaderYAML, LoaderDigest:
		default:
			errs = append(errs, fmt.Errorf("watch %d: %w %q", i, ErrInvalidLoader, w.Loader))
		}
		if _, err := pattern.ParseFileType(w.Types); err != nil {
			errs = append(errs, fmt.Errorf("watch %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Options converts the watch entry into watcher options. Call Validate first.
func (w WatchConfig) Options() (watcher.Options, error) {
	types, err := pattern.ParseFileType(w.Types)
	if err != nil {
		return watcher.Options{}, err
	}

	return watcher.Options{
		CheckInterval: w.Interval,
		FileTypes:     types,
		AbsolutePath:  w.Absolute,
		Filter: pattern.FilterOptions{
			Excludes: w.Exclude,
			AllowExt: w.Extensions,
		},
		NotifyRemoved: w.Removals,
		CatchUp:       w.CatchUp,
	}, nil
}
