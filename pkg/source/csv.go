// pkg/source/csv.go
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// DefaultEncodings is the character-set attempt order for CSV files. Retail
// exports from older point-of-sale systems are frequently Latin-1.
var DefaultEncodings = []string{"utf-8", "iso-8859-1"}

// CSVSource reads a raw table from a CSV file on disk. The first row is the
// header; empty cells load as null.
type CSVSource struct {
	path      string
	encodings []string
	logger    *zap.Logger
}

// NewCSVSource creates a CSV source for the given file path.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		path:      path,
		encodings: DefaultEncodings,
		logger:    logger.Named("csv-source"),
	}
}

// WithEncodings overrides the character-set attempt order.
func (s *CSVSource) WithEncodings(encodings []string) *CSVSource {
	if len(encodings) > 0 {
		s.encodings = encodings
	}
	return s
}

// Name identifies the source for logging and reports
func (s *CSVSource) Name() string {
	return fmt.Sprintf("csv:%s", filepath.Base(s.path))
}

// Close releases resources held by the source
func (s *CSVSource) Close() error {
	return nil
}

// Load reads and parses the file, trying each configured encoding in order
// until one decodes cleanly.
func (s *CSVSource) Load(ctx context.Context) (*model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", s.path, err)
	}

	text, encoding, err := s.decode(raw)
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", s.path)
	}

	header := records[0]
	table := &model.RawTable{
		Columns: header,
		Records: make([]model.RawRecord, 0, len(records)-1),
	}

	for _, row := range records[1:] {
		rec := make(model.RawRecord, len(header))
		for i, col := range header {
			if i >= len(row) || row[i] == "" {
				rec[col] = nil
				continue
			}
			rec[col] = row[i]
		}
		table.Records = append(table.Records, rec)
	}

	s.logger.Info("Loaded CSV file",
		zap.String("path", s.path),
		zap.String("encoding", encoding),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(table.Records)))

	return table, nil
}

// decode returns the file content as UTF-8 text along with the encoding that
// succeeded.
func (s *CSVSource) decode(raw []byte) (string, string, error) {
	for _, enc := range s.encodings {
		switch strings.ToLower(enc) {
		case "utf-8", "utf8":
			if utf8.Valid(raw) {
				return string(raw), enc, nil
			}
			s.logger.Debug("File is not valid UTF-8, trying next encoding",
				zap.String("path", s.path))
		case "iso-8859-1", "latin-1", "latin1":
			// Every byte sequence is valid Latin-1, so this always succeeds.
			decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
			if err != nil {
				return "", "", fmt.Errorf("failed to decode %s as ISO-8859-1: %w", s.path, err)
			}
			return string(decoded), enc, nil
		default:
			return "", "", fmt.Errorf("unsupported CSV encoding %q", enc)
		}
	}
	return "", "", fmt.Errorf("no configured encoding could decode %s", s.path)
}
