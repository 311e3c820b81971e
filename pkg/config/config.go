package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"location-pages/internal/location_pages/model"
)

const (
	StoreFile  = "file"
	StoreMongo = "mongo"
	StoreAPI   = "api"
)

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	BaseURL        string   `yaml:"baseURL"` // sitemap fallback when the request has no Host
	TrustedProxies []string `yaml:"trustedProxies"`
	Mode           string   `yaml:"mode"` // gin mode: debug | release | test
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ContentConfig struct {
	Store        string            `yaml:"store"` // file | mongo | api
	Dir          string            `yaml:"dir"`
	Files        map[string]string `yaml:"files"`
	ServicesFile string            `yaml:"servicesFile"`
	Timezone     string            `yaml:"timezone"`
	APIBaseURL   string            `yaml:"apiBaseURL"` // store=api
	APITimeout   time.Duration     `yaml:"apiTimeout"`
}

type MongoConfig struct {
	Host       string        `yaml:"host"`
	DBName     string        `yaml:"dbname"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	AuthSource string        `yaml:"authSource"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Config struct {
	Server   ServerConfig       `yaml:"server"`
	Log      LogConfig          `yaml:"log"`
	Content  ContentConfig      `yaml:"content"`
	Mongo    MongoConfig        `yaml:"mongo"`
	Business model.BusinessInfo `yaml:"business"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", Mode: "release"},
		Log:    LogConfig{Level: "info"},
		Content: ContentConfig{
			Store:        StoreFile,
			Dir:          "content",
			ServicesFile: "content/servicePage.json",
			APITimeout:   10 * time.Second,
		},
		Mongo: MongoConfig{
			Host:       "localhost:27017",
			DBName:     "location_pages",
			AuthSource: "admin",
			Timeout:    10 * time.Second,
		},
		Business: model.BusinessInfo{
			LocationToken: "[location]",
			PhoneToken:    "[phone]",
		},
	}
}

// LoadConfig reads path over the defaults and then applies environment
// overrides. A missing file is not an error when path is empty.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"LOCATION_PAGES_ADDR":      &c.Server.Addr,
		"LOCATION_PAGES_BASE_URL":  &c.Server.BaseURL,
		"LOCATION_PAGES_LOG_LEVEL": &c.Log.Level,
		"LOCATION_PAGES_STORE":     &c.Content.Store,
		"LOCATION_PAGES_CONTENT":   &c.Content.Dir,
		"LOCATION_PAGES_TIMEZONE":  &c.Content.Timezone,
		"LOCATION_PAGES_API_URL":   &c.Content.APIBaseURL,
		"LOCATION_PAGES_PHONE":     &c.Business.Phone,
		"MONGO_HOST":               &c.Mongo.Host,
		"MONGO_DBNAME":             &c.Mongo.DBName,
		"MONGO_USERNAME":           &c.Mongo.Username,
		"MONGO_PASSWORD":           &c.Mongo.Password,
		"MONGO_AUTH_SOURCE":        &c.Mongo.AuthSource,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("LOCATION_PAGES_LOG_DEV"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOCATION_PAGES_LOG_DEV: %w", err)
		}
		c.Log.Development = b
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Content.Store {
	case StoreFile:
		if c.Content.Dir == "" {
			errs = append(errs, errors.New("content.dir is required for the file store"))
		}
	case StoreMongo:
		if c.Mongo.Host == "" || c.Mongo.DBName == "" {
			errs = append(errs, errors.New("mongo.host and mongo.dbname are required for the mongo store"))
		}
	case StoreAPI:
		if c.Content.APIBaseURL == "" {
			errs = append(errs, errors.New("content.apiBaseURL is required for the api store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown content.store %q", c.Content.Store))
	}
	if c.Business.Name == "" {
		errs = append(errs, errors.New("business.name is required"))
	}
	if c.Business.Host == "" {
		errs = append(errs, errors.New("business.host is required"))
	}
	if c.Business.LocationToken == "" {
		errs = append(errs, errors.New("business.locationToken is required"))
	}
	return errors.Join(errs...)
}
