package configs

import (
	"context"
	"fmt"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/models"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN renders the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "mysql" {
		// clientFoundRows makes an update that changes nothing still count its
		// matched row, as postgres does.
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			d.User, d.Password, d.Host, d.Port, d.Name)
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

func (d DatabaseConfig) dialector() gorm.Dialector {
	if d.Driver == "mysql" {
		return mysql.Open(d.DSN())
	}
	return postgres.Open(d.DSN())
}

func SetupDatabase(cfg *Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.App.AppEnv == "development" {
		level = logger.Info
	}

	database, err := gorm.Open(cfg.Database.dialector(), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.Database.Driver, err)
	}
	return database, nil
}

// InitDatabase migrates the schema and seeds the roles.
func InitDatabase(ctx context.Context, db *gorm.DB, registry *service.RoleRegistry) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return registry.EnsureSeeded(ctx)
}
