package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultBaseURL        = "https://scholar.google.com/"
	DefaultNavigationHost = "https://scholar.google.co.il"
	DefaultAuthorMarker   = "user="
	DefaultTimeoutSec     = 30

	ExtractorRegex = "regex"
	ExtractorQuery = "query"
)

type ScholarConfig struct {
	BaseURL        string `yaml:"base_url"`
	NavigationHost string `yaml:"navigation_host"`
	AuthorMarker   string `yaml:"author_marker"`
}

type DBConfig struct {
	Connection  string `yaml:"connection"`
	Database    string `yaml:"database"`
	Collections struct {
		Authors string `yaml:"authors"`
		Pages   string `yaml:"pages"`
	} `yaml:"collections"`
}

// Enabled reports whether a Mongo connection string was configured.
func (c DBConfig) Enabled() bool {
	return c.Connection != ""
}

type LogicConfig struct {
	DelayMS       int    `yaml:"delay_ms"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	UserAgent     string `yaml:"user_agent"`
	RespectRobots bool   `yaml:"respect_robots"`
	Extractor     string `yaml:"extractor"`
}

func (c LogicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c LogicConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

type RunConfig struct {
	LabelURL  string `yaml:"label_url"`
	Pages     int    `yaml:"pages"`
	Skip      int    `yaml:"skip"`
	OutputDir string `yaml:"output_dir"`
	Verbose   bool   `yaml:"verbose"`
}

type SpiderConfig struct {
	Scholar ScholarConfig `yaml:"scholar"`
	DB      DBConfig      `yaml:"db"`
	Logic   LogicConfig   `yaml:"logic"`
	Run     RunConfig     `yaml:"run"`
}

// Default returns a config with every optional value filled in.
func Default() *SpiderConfig {
	cfg := &SpiderConfig{}
	cfg.SetDefaults()
	return cfg
}

func (c *SpiderConfig) SetDefaults() {
	if c.Scholar.BaseURL == "" {
		c.Scholar.BaseURL = DefaultBaseURL
	}
	if c.Scholar.NavigationHost == "" {
		c.Scholar.NavigationHost = DefaultNavigationHost
	}
	if c.Scholar.AuthorMarker == "" {
		c.Scholar.AuthorMarker = DefaultAuthorMarker
	}
	if c.Logic.TimeoutSec <= 0 {
		c.Logic.TimeoutSec = DefaultTimeoutSec
	}
	if c.Logic.Extractor == "" {
		c.Logic.Extractor = ExtractorRegex
	}
	if c.DB.Database == "" {
		c.DB.Database = "scholar"
	}
	if c.DB.Collections.Authors == "" {
		c.DB.Collections.Authors = "authors"
	}
	if c.DB.Collections.Pages == "" {
		c.DB.Collections.Pages = "pages"
	}
}

func (c *SpiderConfig) Validate() error {
	var errs []error

	u, err := url.Parse(c.Run.LabelURL)
	if c.Run.LabelURL == "" || err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("label_url must be an absolute URL, got %q", c.Run.LabelURL))
	}
	if c.Run.Pages < 0 {
		errs = append(errs, fmt.Errorf("pages must not be negative, got %d", c.Run.Pages))
	}
	if c.Run.Skip < 0 {
		errs = append(errs, fmt.Errorf("skip must not be negative, got %d", c.Run.Skip))
	}
	if c.Run.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	switch c.Logic.Extractor {
	case ExtractorRegex, ExtractorQuery:
	default:
		errs = append(errs, fmt.Errorf("unknown extractor %q", c.Logic.Extractor))
	}

	return errors.Join(errs...)
}

func LoadConfig(path string) (*SpiderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg SpiderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}
