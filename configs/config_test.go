package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.AppPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessExpire())
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshExpiry())
	assert.Zero(t, cfg.Auth.PwResetExpiry())
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"user", "moderator", "admin"}, cfg.Roles.Names)
	assert.Equal(t, "user", cfg.Roles.Default)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeYAML(t, `
app:
  port: "9000"
  allowOrigins: ["https://shop.example.com"]
database:
  driver: mysql
  host: db
  name: webshop
auth:
  jwtSecret: from-yaml
  pwResetExpirySeconds: 600
rateLimit:
  capacity: 5
  refillInterval: 30s
`)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.AppPort)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.App.AllowOrigins)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "from-yaml", cfg.Auth.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.Auth.PwResetExpiry())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.RefillInterval)
	// untouched defaults survive the overlay
	assert.Equal(t, 20, cfg.RateLimit.RefillTokens)
}

func TestLoadConfigRoles(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ROLES", "customer, staff ,")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"customer", "staff"}, cfg.Roles.Names)
	assert.Equal(t, "customer", cfg.Roles.Default)

	t.Setenv("APP_DEFAULT_ROLE", "manager")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, `default role "manager"`)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open config file")

	_, err = LoadConfig(writeYAML(t, "app: [not, a, map"))
	assert.ErrorContains(t, err, "decode config file")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "many")
	t.Setenv("RATE_LIMIT_TTL", "forever")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "BCRYPT_COST")
	assert.ErrorContains(t, err, "RATE_LIMIT_TTL")
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.Validate()
	assert.ErrorContains(t, err, "JWT_SECRET is required")

	cfg.Auth.JWTSecret = "s3cret"
	cfg.Auth.BcryptCost = 2
	cfg.Database.Driver = "sqlite"
	cfg.Auth.RefreshExpirySeconds = 0
	err = cfg.Validate()
	assert.ErrorContains(t, err, "BCRYPT_COST")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "sqlite"`)
	assert.ErrorContains(t, err, "REFRESH_TOKEN_EXPIRY")

	cfg = defaultConfig()
	cfg.Auth.JWTSecret = "s3cret"
	cfg.Roles.Names = nil
	assert.ErrorContains(t, cfg.Validate(), "at least one role")
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Driver: "postgres", Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", TimeZone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())

	db.Driver, db.Port = "mysql", "3306"
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", db.DSN())
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(AppConfig{})
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)

	restricted := corsConfig(AppConfig{AllowOrigins: []string{"https://shop.example.com"}})
	assert.False(t, restricted.AllowAllOrigins)
	assert.True(t, restricted.AllowCredentials)
	assert.Equal(t, []string{"https://shop.example.com"}, restricted.AllowOrigins)
	assert.NoError(t, restricted.Validate())
}
