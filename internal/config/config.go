package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	JwtTTL                time.Duration `yaml:"jwt_ttl"`
	DefaultPageSize       int           `yaml:"default_page_size"` // group listing cap when none requested
	MaxPageSize           int           `yaml:"max_page_size"`     // requested limits are clamped to this
	InviteTTL             time.Duration `yaml:"invite_ttl"`        // validity window for new invite codes
	InvitePurgeSpec       string        `yaml:"invite_purge_spec"` // cron spec for the expired-invite sweep
	MaxUploadBytes        int64         `yaml:"max_upload_bytes"`
	AllowedImageMimeTypes []string      `yaml:"allowed_image_mime_types"`
	SecureCookies         bool          `yaml:"secure_cookies"`
	AllowedOrigins        []string      `yaml:"allowed_origins"`
	LogLevel              string        `yaml:"log_level"`
	LogJSON               bool          `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg            Pg     `yaml:"pg"`
	JwtKey        string `yaml:"jwt_key"`
	CloudinaryURL string `yaml:"cloudinary_url"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.DefaultPageSize <= 0 {
		s.Public.DefaultPageSize = 20
	}
	if s.Public.MaxPageSize <= 0 {
		s.Public.MaxPageSize = 50
	}
	if s.Public.InviteTTL <= 0 {
		s.Public.InviteTTL = 7 * 24 * time.Hour
	}
	if s.Public.InvitePurgeSpec == "" {
		s.Public.InvitePurgeSpec = "30 3 * * *"
	}
	if s.Public.MaxUploadBytes <= 0 {
		s.Public.MaxUploadBytes = 10 << 20
	}
	if len(s.Public.AllowedImageMimeTypes) == 0 {
		s.Public.AllowedImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif"}
	}
	if s.Public.LogLevel == "" {
		s.Public.LogLevel = "info"
	}
}
