package services

import (
	stdContext "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type DatabaseService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const DATABASE_SVC = "database_svc"

func (ds DatabaseService) Id() string {
	return DATABASE_SVC
}

func (ds DatabaseService) Db() *gorm.DB {
	return ds.db
}

func (ds *DatabaseService) Configure(ctx *context.Context) error {
	ds.driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if ds.driver == "" {
		ds.driver = DriverPostgres
	}

	if ds.driver == DriverSqlite {
		ds.database = os.Getenv("DB_DATABASE")
		if ds.database == "" {
			ds.database = "launchpad.db"
		}
		return ds.DefaultService.Configure(ctx)
	}

	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "launchpad"),
			envOr("DB_PORT", "5432"),
			envOr("DB_SSLMODE", "disable"),
			envOr("DB_TIMEZONE", "UTC"))
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *DatabaseService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to %s database (attempt %d/%d)...", ds.driver, attempt, maxRetries)

		ds.db, err = OpenDatabase(ds.driver, ds.database)
		if err == nil {
			break
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = Migrate(ds.db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *DatabaseService) Shutdown() {
	if ds.db == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *DatabaseService) Ping(ctx stdContext.Context) error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// OpenDatabase opens and pings a connection for the given driver.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSqlite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	if driver == DriverSqlite {
		// A single writer avoids "database is locked" under concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

// HandleError classifies a database error into an *shared.AppError and logs it.
// notFound is the message used when the record does not exist.
func HandleError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		msg := err.Error()
		switch {
		case strings.Contains(msg, "duplicate key value violates unique constraint"),
			strings.Contains(msg, "UNIQUE constraint failed"):
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"),
			strings.Contains(msg, "no such table"):
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
		case strings.Contains(msg, "connection refused"):
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		default:
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	switch statusCode {
	case http.StatusNotFound:
		if notFound == "" {
			notFound = "Not found"
		}
		return shared.NewNotFoundError(err, notFound)
	case http.StatusConflict:
		return shared.NewConflictError(err, "Resource already exists")
	case http.StatusBadRequest:
		return shared.NewBadRequestError(err, "Referenced resource does not exist")
	default:
		appErr := shared.NewInternalError(fmt.Errorf("%s: %w", errorType, err), "Internal server error")
		appErr.StatusCode = statusCode
		return appErr
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
