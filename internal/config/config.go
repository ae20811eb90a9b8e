package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr string

	// Upstream API.
	HNBaseURL string
	HNAPIKey  string
	HNTimeout time.Duration

	// Pool and fan-out tuning.
	FanoutWidth  int
	ListLimit    int
	SearchPool   int
	DatePool     int
	CommentLimit int
	MaxDepth     int

	// Content extraction.
	ExtractTimeout time.Duration

	// NATS tool transport. Empty URL disables it.
	NATSURL       string
	SubjectPrefix string

	// Build identity, stamped by the linker.
	Version   string
	Commit    string
	BuildTime string
}

// fileConfig is the YAML shape of an optional config file. Env vars
// override whatever the file sets.
type fileConfig struct {
	Addr           string `yaml:"addr"`
	HNBaseURL      string `yaml:"hn_base_url"`
	HNAPIKey       string `yaml:"hn_api_key"`
	HNTimeout      string `yaml:"hn_timeout"`
	FanoutWidth    int    `yaml:"fanout_width"`
	ListLimit      int    `yaml:"list_limit"`
	SearchPool     int    `yaml:"search_pool"`
	DatePool       int    `yaml:"date_pool"`
	CommentLimit   int    `yaml:"comment_limit"`
	MaxDepth       int    `yaml:"max_depth"`
	ExtractTimeout string `yaml:"extract_timeout"`
	NATSURL        string `yaml:"nats_url"`
	SubjectPrefix  string `yaml:"subject_prefix"`
}

// Load builds the config from defaults, then the optional YAML file at
// path (empty path skips the file), then environment variables.
func Load(path string) (Config, error) {
	cfg := Config{
		Addr:           ":8080",
		HNTimeout:      30 * time.Second,
		FanoutWidth:    8,
		ListLimit:      30,
		SearchPool:     200,
		DatePool:       500,
		CommentLimit:   10,
		MaxDepth:       2,
		ExtractTimeout: 20 * time.Second,
		SubjectPrefix:  "hnbot",
		Version:        "dev",
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	setString(&c.Addr, fc.Addr)
	setString(&c.HNBaseURL, fc.HNBaseURL)
	setString(&c.HNAPIKey, fc.HNAPIKey)
	setString(&c.NATSURL, fc.NATSURL)
	setString(&c.SubjectPrefix, fc.SubjectPrefix)
	setInt(&c.FanoutWidth, fc.FanoutWidth)
	setInt(&c.ListLimit, fc.ListLimit)
	setInt(&c.SearchPool, fc.SearchPool)
	setInt(&c.DatePool, fc.DatePool)
	setInt(&c.CommentLimit, fc.CommentLimit)
	setInt(&c.MaxDepth, fc.MaxDepth)
	if err := setDuration(&c.HNTimeout, fc.HNTimeout); err != nil {
		return fmt.Errorf("hn_timeout: %w", err)
	}
	if err := setDuration(&c.ExtractTimeout, fc.ExtractTimeout); err != nil {
		return fmt.Errorf("extract_timeout: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	addr := envString("HNBOT_ADDR", c.Addr)
	if addr == c.Addr {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}
	c.Addr = addr
	c.HNBaseURL = envString("HNBOT_HN_BASE_URL", c.HNBaseURL)
	c.HNAPIKey = envString("HNBOT_HN_API_KEY", c.HNAPIKey)
	c.HNTimeout = envDuration("HNBOT_HN_TIMEOUT", c.HNTimeout)
	c.FanoutWidth = envInt("HNBOT_FANOUT_WIDTH", c.FanoutWidth)
	c.ListLimit = envInt("HNBOT_LIST_LIMIT", c.ListLimit)
	c.SearchPool = envInt("HNBOT_SEARCH_POOL", c.SearchPool)
	c.DatePool = envInt("HNBOT_DATE_POOL", c.DatePool)
	c.CommentLimit = envInt("HNBOT_COMMENT_LIMIT", c.CommentLimit)
	c.MaxDepth = envInt("HNBOT_MAX_DEPTH", c.MaxDepth)
	c.ExtractTimeout = envDuration("HNBOT_EXTRACT_TIMEOUT", c.ExtractTimeout)
	c.NATSURL = envString("HNBOT_NATS_URL", c.NATSURL)
	c.SubjectPrefix = envString("HNBOT_SUBJECT_PREFIX", c.SubjectPrefix)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
