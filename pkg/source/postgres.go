// pkg/source/postgres.go
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/config"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// PostgresSource loads a raw table from a PostgreSQL staging table, typically
// one an upload job wrote an export into verbatim.
type PostgresSource struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
	table  string
}

// NewPostgresSource opens a connection pool against the configured database
// and verifies connectivity.
func NewPostgresSource(ctx context.Context, cfg *config.PostgresConfig, table string) (*PostgresSource, error) {
	logger := zap.L().Named("postgres-source")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("table", table))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db.DB,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if err := PingWithTimeout(ctx, db.DB, 10*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	LogConnectionStats(logger, cfg.Database, db.DB)

	return &PostgresSource{
		db:     db,
		logger: logger,
		cfg:    cfg,
		table:  table,
	}, nil
}

// Name identifies the source for logging and reports
func (s *PostgresSource) Name() string {
	return fmt.Sprintf("postgres:%s.%s", s.cfg.Database, s.table)
}

// Close closes the database connection
func (s *PostgresSource) Close() error {
	s.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(s.logger, s.cfg.Database, s.db.DB)
	return s.db.Close()
}

// Load reads every row of the staging table. Column order follows the
// result set so the mapper sees the same ordering a file export would have.
func (s *PostgresSource) Load(ctx context.Context) (*model.RawTable, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT * FROM %s", s.table)
	rows, err := s.db.QueryxContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", s.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", s.table, err)
	}

	table := &model.RawTable{Columns: columns}
	for rows.Next() {
		rec := make(model.RawRecord, len(columns))
		if err := rows.MapScan(rec); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", s.table, err)
		}
		for col, v := range rec {
			rec[col] = normalizeValue(v)
		}
		table.Records = append(table.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", s.table, err)
	}

	s.logger.Info("Loaded PostgreSQL table",
		zap.String("table", s.table),
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(table.Records)))

	return table, nil
}
