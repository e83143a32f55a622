package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog Dataset `yaml:"catalog"`
	Quiz    Dataset `yaml:"quiz"`
	Storage struct {
		Prefix string `yaml:"prefix"`
	} `yaml:"storage"`
	Search struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"search"`
}

// Dataset says where one static dataset is fetched from. URL wins over File;
// with neither set the dataset comes from Postgres when configured.
type Dataset struct {
	URL  string `yaml:"url"`
	File string `yaml:"file"`
	TTL  string `yaml:"ttl"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
