package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Blob     BlobConfig     `yaml:"blob"`
	Auth     AuthConfig     `yaml:"auth"`
	LogLevel string         `yaml:"log_level"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"database"`
	SSLMode      string        `yaml:"sslmode"`
	MaxConns     int32         `yaml:"max_conns"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
	TLS      bool   `yaml:"tls"`
}

// BlobConfig selects where menu images live. Provider "azure" uses a storage
// account container; "local" writes into ImagesDir served under /images/.
type BlobConfig struct {
	Provider   string        `yaml:"provider"`
	Account    string        `yaml:"account"`
	AccountKey string        `yaml:"account_key"`
	Container  string        `yaml:"container"`
	ImagesDir  string        `yaml:"images_dir"`
	SignedTTL  time.Duration `yaml:"signed_url_ttl"`
	Timeout    time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

// Load reads the YAML file at path, then applies .env and environment
// overrides, then defaults, then validates.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&c.Blob.Account, "AZURE_STORAGE_ACCOUNT")
	setString(&c.Blob.AccountKey, "AZURE_STORAGE_ACCOUNT_KEY")
	setString(&c.Blob.Container, "AZURE_STORAGE_CONTAINER")
	setString(&c.Auth.TokenSecret, "ADMIN_TOKEN_SECRET")
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"*"}
	}
	if c.HTTP.RequestTimeout == 0 {
		c.HTTP.RequestTimeout = 30 * time.Second
	}
	if c.HTTP.MaxUploadBytes == 0 {
		c.HTTP.MaxUploadBytes = 5 << 20
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.QueryTimeout == 0 {
		c.Database.QueryTimeout = 5 * time.Second
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.RabbitMQ.VHost == "" {
		c.RabbitMQ.VHost = "/"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "order_events"
	}
	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = c.RabbitMQ.Exchange + ".kitchen"
	}
	if c.Blob.Provider == "" {
		c.Blob.Provider = "local"
	}
	if c.Blob.Container == "" {
		c.Blob.Container = "menu-images"
	}
	if c.Blob.ImagesDir == "" {
		c.Blob.ImagesDir = "public/images"
	}
	if c.Blob.SignedTTL == 0 {
		c.Blob.SignedTTL = time.Hour
	}
	if c.Blob.Timeout == 0 {
		c.Blob.Timeout = 15 * time.Second
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
		return errors.New("database config incomplete: host, user and database are required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.Newf("http port out of range: %d", c.HTTP.Port)
	}
	switch c.Blob.Provider {
	case "local":
	case "azure":
		if c.Blob.Account == "" || c.Blob.AccountKey == "" {
			return errors.New("blob config incomplete: azure provider needs account and account_key")
		}
	default:
		return errors.Newf("unknown blob provider %q", c.Blob.Provider)
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.Host == "" || c.RabbitMQ.User == "") {
		return errors.New("rabbitmq config incomplete: host and user are required when enabled")
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Database,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
