// pkg/source/factory.go
package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/config"
)

// SourceFactory creates raw-record sources from configuration
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCSVSource creates a CSV file source honoring the configured
// encoding attempt order.
func (f *SourceFactory) CreateCSVSource(path string) *CSVSource {
	f.logger.Info("Creating CSV source", zap.String("path", path))
	return NewCSVSource(path, f.logger).WithEncodings(f.cfg.CSVEncodings)
}

// CreatePostgresSource creates a PostgreSQL staging-table source.
func (f *SourceFactory) CreatePostgresSource(ctx context.Context, table string) (*PostgresSource, error) {
	if f.cfg.Postgres == nil {
		return nil, fmt.Errorf("PostgreSQL is not configured")
	}

	f.logger.Info("Creating PostgreSQL source", zap.String("table", table))

	src, err := NewPostgresSource(ctx, f.cfg.Postgres, table)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL source: %w", err)
	}
	return src, nil
}

// CreateSnowflakeSource creates a Snowflake table source.
func (f *SourceFactory) CreateSnowflakeSource(ctx context.Context, table string) (*SnowflakeSource, error) {
	if f.cfg.Snowflake == nil {
		return nil, fmt.Errorf("Snowflake is not configured")
	}

	f.logger.Info("Creating Snowflake source", zap.String("table", table))

	src, err := NewSnowflakeSource(ctx, f.cfg.Snowflake, table)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake source: %w", err)
	}
	return src, nil
}
