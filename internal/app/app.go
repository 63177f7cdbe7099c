package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/auth"
	"github.com/router-for-me/calculator-api/internal/config"
	"github.com/router-for-me/calculator-api/internal/db"
	"github.com/router-for-me/calculator-api/internal/http/api"
	"github.com/router-for-me/calculator-api/internal/ratelimit"
	"github.com/router-for-me/calculator-api/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// ConfigExists reports whether a config file exists at configPath.
func ConfigExists(configPath string) bool {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return false
	}
	return true
}

// ConfigureLogging applies the configured level and format to the global logger.
func ConfigureLogging(cfg config.LogConfig) error {
	level, errLevel := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if errLevel != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, errLevel)
	}
	log.SetLevel(level)
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.Format)
	}
	if level >= log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if errMigrate := db.Migrate(conn.WithContext(ctx)); errMigrate != nil {
		return errMigrate
	}
	log.Infof("migrations applied (%s)", db.DialectName(conn))
	return nil
}

// NewEngine wires stores, the auth flow and the limiter into a routed gin engine.
func NewEngine(conn *gorm.DB, cfg config.Config, limiter *ratelimit.Manager) *gin.Engine {
	users := store.NewUserStore(conn)
	return api.NewRouter(api.Dependencies{
		DB:           conn,
		Auth:         auth.NewService(users, cfg.JWT),
		Users:        users,
		Calculations: store.NewCalculationStore(conn),
		Limiter:      limiter,
		RateLimit:    cfg.RateLimit,
	})
}

// NewLimiter builds the rate limit manager described by cfg.
func NewLimiter(cfg config.RateLimitConfig) *ratelimit.Manager {
	return ratelimit.NewManager(ratelimit.SettingsConfig{
		RedisEnabled:  cfg.RedisEnabled,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
	})
}

// RunServer opens the database, applies migrations and serves the API until ctx is done.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	limiter := NewLimiter(cfg.RateLimit)
	defer func() {
		if errClose := limiter.Close(); errClose != nil {
			log.WithError(errClose).Warn("ratelimit: close redis client failed")
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewEngine(conn, cfg, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("starting calculator api on %s (db=%s, token ttl=%s)", addr, db.DialectName(conn), cfg.JWT.Expiry)
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return errListen
	}
	log.Info("server stopped")
	return nil
}

func closeDB(conn *gorm.DB) {
	if errClose := db.Close(conn); errClose != nil {
		log.WithError(errClose).Warn("db: close failed")
	}
}
