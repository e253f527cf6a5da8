package db

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open returns a gorm handle for the given driver. Postgres connections go
// through lib/pq rather than pgx.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "postgres", "postgresql":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case "mysql":
		cfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dialector = mysql.New(mysql.Config{DSNConfig: cfg})
	case "sqlite":
		if dsn == "" {
			dsn = "taskboard.db"
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dialector = sqlite.Open(dsn + sep + "_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

func ConnectDatabase(cfg config.Config) error {
	var err error

	DB, err = Open(cfg.DatabaseDriver, cfg.DatabaseURL)

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

// Migrate creates or updates every table. Order matters for foreign keys.
func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.Task{},
		&models.Comment{},
		&models.Notification{},
		&models.RevokedToken{},
	}

	for _, model := range tables {
		if err := conn.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	return nil
}

// SeedAdmin creates an approved ADMIN if the username is not taken yet.
func SeedAdmin(conn *gorm.DB, admin config.BootstrapAdmin) error {
	if !admin.Enabled() {
		return nil
	}

	var existing models.User
	err := conn.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	email := admin.Email
	if email == "" {
		email = admin.Username + "@localhost"
	}

	user := models.User{
		Username:     admin.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsApproved:   true,
	}
	if err := conn.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("Created bootstrap admin %q", admin.Username)
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	return false
}
