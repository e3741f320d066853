package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing
type DBTracingConfig struct {
	Enabled    bool
	LogFullSQL bool // include query variables in spans, dev only
	DBName     string
}

// DefaultDBTracingConfig returns default configuration for database tracing
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:    false,
		LogFullSQL: false,
		DBName:     "labstock",
	}
}

// RegisterOtelGorm registers the otelgorm plugin with the given GORM DB instance
func RegisterOtelGorm(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBName),
	}
	if !cfg.LogFullSQL {
		// Keep query parameters out of spans
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}
