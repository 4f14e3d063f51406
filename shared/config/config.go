package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port    int           `yaml:"port"`
	JwtTTL  time.Duration `yaml:"jwt_ttl"`
	CodeTTL time.Duration `yaml:"code_ttl"` // lifetime of email confirmation / password reset codes

	// When false, accounts are active right after registration and login does not check confirmation.
	RequireEmailConfirmation bool `yaml:"require_email_confirmation"`

	UploadDir             string   `yaml:"upload_dir"`
	MaxUploadSize         int64    `yaml:"max_upload_size"` // bytes, per request
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureHeaders  bool     `yaml:"secure_headers"` // adds HSTS, enable behind https
	RedisAddr      string   `yaml:"redis_addr"`     // optional, shared rate limit buckets

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	SenderName string `yaml:"sender_name"`
}

type Private struct {
	JwtKey         string `yaml:"jwt_key"`
	PasswordPepper string `yaml:"password_pepper"`
	RedisPassword  string `yaml:"redis_password"`
	Pg             Pg     `yaml:"pg"`
	Email          Email  `yaml:"email"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// BLOGHUB_* environment overrides (a .env file is loaded first when present)
// and panics if a required value is missing.
func MustLoad(configFolder string) *Config {
	_ = godotenv.Load()

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"BLOGHUB_JWT_KEY":         &c.Private.JwtKey,
		"BLOGHUB_PASSWORD_PEPPER": &c.Private.PasswordPepper,
		"BLOGHUB_REDIS_PASSWORD":  &c.Private.RedisPassword,
		"BLOGHUB_PG_HOST":         &c.Private.Pg.Host,
		"BLOGHUB_PG_USER":         &c.Private.Pg.User,
		"BLOGHUB_PG_PASSWORD":     &c.Private.Pg.Password,
		"BLOGHUB_PG_DBNAME":       &c.Private.Pg.Dbname,
		"BLOGHUB_SMTP_USERNAME":   &c.Private.Email.Username,
		"BLOGHUB_SMTP_PASSWORD":   &c.Private.Email.Password,
		"BLOGHUB_REDIS_ADDR":      &c.Public.RedisAddr,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	if v, ok := os.LookupEnv("BLOGHUB_PG_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Private.Pg.Port = port
		}
	}
	if v, ok := os.LookupEnv("BLOGHUB_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Public.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.JwtTTL == 0 {
		c.Public.JwtTTL = 30 * 24 * time.Hour
	}
	if c.Public.CodeTTL == 0 {
		c.Public.CodeTTL = 15 * time.Minute
	}
	if c.Public.UploadDir == "" {
		c.Public.UploadDir = "./uploads"
	}
	if c.Public.MaxUploadSize == 0 {
		c.Public.MaxUploadSize = 10 << 20
	}
	if len(c.Public.AllowedImageMimeTypes) == 0 {
		c.Public.AllowedImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if c.Private.Pg.Port == 0 {
		c.Private.Pg.Port = 5432
	}
	if c.Private.Pg.SSLMode == "" {
		c.Private.Pg.SSLMode = "disable"
	}
}

func (c *Config) validate() error {
	required := map[string]string{
		"jwt_key":         c.Private.JwtKey,
		"password_pepper": c.Private.PasswordPepper,
		"pg.host":         c.Private.Pg.Host,
		"pg.user":         c.Private.Pg.User,
		"pg.dbname":       c.Private.Pg.Dbname,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("required config value is missing: %s", name)
		}
	}
	if c.Public.RequireEmailConfirmation && c.Private.Email.SMTPServer == "" {
		return fmt.Errorf("email.smtp_server is required when require_email_confirmation is enabled")
	}
	return nil
}
