package configs

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	AppEnv  string `yaml:"env"`
	AppPort string `yaml:"port"`
	// AllowOrigins lists the CORS origins; empty allows any origin.
	AllowOrigins []string `yaml:"allowOrigins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres or mysql
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	TimeZone string `yaml:"timeZone"`
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwtSecret"`
	AccessExpireMinutes  int    `yaml:"accessExpireMinutes"`
	RefreshExpirySeconds int    `yaml:"refreshExpirySeconds"`
	PwResetExpirySeconds int    `yaml:"pwResetExpirySeconds"`
	BcryptCost           int    `yaml:"bcryptCost"`
	// BaseURL is the public prefix of the password reset links.
	BaseURL string `yaml:"baseUrl"`
}

func (a AuthConfig) AccessExpire() time.Duration {
	return time.Duration(a.AccessExpireMinutes) * time.Minute
}

func (a AuthConfig) RefreshExpiry() time.Duration {
	return time.Duration(a.RefreshExpirySeconds) * time.Second
}

func (a AuthConfig) PwResetExpiry() time.Duration {
	return time.Duration(a.PwResetExpirySeconds) * time.Second
}

type QueueConfig struct {
	// URL of the AMQP broker. Empty means mail is sent in-process.
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type CatalogConfig struct {
	// Table is the DynamoDB products table. Empty disables product checks.
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
}

type Config struct {
	App       AppConfig                  `yaml:"app"`
	Database  DatabaseConfig             `yaml:"database"`
	Auth      AuthConfig                 `yaml:"auth"`
	Mail      mailer.Config              `yaml:"mail"`
	Queue     QueueConfig                `yaml:"queue"`
	Redis     RedisConfig                `yaml:"redis"`
	RateLimit middleware.RateLimitConfig `yaml:"rateLimit"`
	Catalog   CatalogConfig              `yaml:"catalog"`
	Roles     service.RolesConfig        `yaml:"roles"`
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{AppEnv: "development", AppPort: "8080"},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			TimeZone: "Asia/Ho_Chi_Minh",
		},
		Auth: AuthConfig{
			AccessExpireMinutes:  15,
			RefreshExpirySeconds: 86400,
			BcryptCost:           bcrypt.DefaultCost,
			BaseURL:              "http://localhost:8080/api/v1/auth",
		},
		Mail: mailer.Config{Transport: "smtp", Port: "587"},
		RateLimit: middleware.RateLimitConfig{
			Enabled:        true,
			Capacity:       20,
			RefillTokens:   20,
			RefillInterval: time.Minute,
			TTL:            10 * time.Minute,
			Prefix:         "rl",
		},
		Roles: service.DefaultRolesConfig(),
	}
}

// LoadConfig builds the configuration from defaults, then the optional yaml
// file at path, then the environment (a .env file is loaded if present).
func LoadConfig(path string) (*Config, error) {
	for _, f := range []string{".env", "../.env"} {
		if err := godotenv.Load(f); err == nil {
			break
		}
	}

	cfg := defaultConfig()
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("APP_ENV", &cfg.App.AppEnv)
	str("APP_PORT", &cfg.App.AppPort)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.App.AllowOrigins = splitList(v)
	}

	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_TIMEZONE", &cfg.Database.TimeZone)

	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	num("JWT_ACCESS_EXPIRE", &cfg.Auth.AccessExpireMinutes)
	num("REFRESH_TOKEN_EXPIRY", &cfg.Auth.RefreshExpirySeconds)
	num("PW_RESET_TOKEN_EXPIRY", &cfg.Auth.PwResetExpirySeconds)
	num("BCRYPT_COST", &cfg.Auth.BcryptCost)
	str("AUTH_BASE", &cfg.Auth.BaseURL)

	str("MAIL_TRANSPORT", &cfg.Mail.Transport)
	str("MAIL_HOST", &cfg.Mail.Host)
	str("MAIL_PORT", &cfg.Mail.Port)
	str("MAIL_USER", &cfg.Mail.User)
	str("MAIL_PW", &cfg.Mail.Password)
	str("MAIL_API_URL", &cfg.Mail.APIURL)
	str("MAIL_API_KEY", &cfg.Mail.APIKey)

	str("RABBITMQ_URL", &cfg.Queue.URL)

	str("REDIS_ADDR", &cfg.Redis.Addr)
	if host := os.Getenv("REDIS_HOST"); host != "" && os.Getenv("REDIS_ADDR") == "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Redis.Addr = host + ":" + port
	}
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	num("REDIS_DB", &cfg.Redis.Database)

	flag("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	num("RATE_LIMIT_CAPACITY", &cfg.RateLimit.Capacity)
	num("RATE_LIMIT_REFILL_TOKENS", &cfg.RateLimit.RefillTokens)
	duration("RATE_LIMIT_REFILL_INTERVAL", &cfg.RateLimit.RefillInterval)
	duration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL)
	str("RATE_LIMIT_PREFIX", &cfg.RateLimit.Prefix)

	str("CATALOG_TABLE", &cfg.Catalog.Table)
	str("AWS_REGION", &cfg.Catalog.Region)

	if v := os.Getenv("APP_ROLES"); v != "" {
		cfg.Roles.Names = splitList(v)
	}
	str("APP_DEFAULT_ROLE", &cfg.Roles.Default)
	// A role list without the old default falls back to its first entry.
	if os.Getenv("APP_DEFAULT_ROLE") == "" && len(cfg.Roles.Names) > 0 &&
		!slices.Contains(cfg.Roles.Names, cfg.Roles.Default) {
		cfg.Roles.Default = cfg.Roles.Names[0]
	}

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.AccessExpireMinutes <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRE must be positive"))
	}
	if c.Auth.RefreshExpirySeconds <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRY must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if len(c.Roles.Names) == 0 {
		errs = append(errs, errors.New("at least one role must be configured"))
	} else if c.Roles.Default != "" && !slices.Contains(c.Roles.Names, c.Roles.Default) {
		errs = append(errs, fmt.Errorf("default role %q is not one of %v", c.Roles.Default, c.Roles.Names))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
