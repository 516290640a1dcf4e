// pkg/mapper/mapper.go
package mapper

import (
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// Mapper guesses which raw columns carry which semantic role by matching an
// ordered list of keywords per role against the column names. The match is a
// case-insensitive substring test, which is deliberately approximate: a
// column literally named "id" will satisfy the customer role because "id" is
// a substring of many words. The guess is a starting point; callers may
// override any role before standardization.
type Mapper struct {
	logger   *zap.Logger
	keywords map[model.Role][]string
}

// defaultKeywords returns the per-role keyword tables. Order matters twice:
// an earlier keyword wins over a later one, and for a given keyword the first
// matching column in header order wins.
func defaultKeywords() map[model.Role][]string {
	return map[model.Role][]string{
		model.RoleDate:     {"date", "time", "ngay", "thoi_gian", "invoice_date", "day"},
		model.RolePrice:    {"total sales", "amount", "total", "money", "tien", "price", "gia", "doanh_thu", "sales"},
		model.RoleQuantity: {"qty", "quantity", "so_luong", "sl", "num", "count", "units sold", "units"},
		model.RoleCustomer: {"retailer id", "cust", "customer", "khach", "member", "user", "id"},
		model.RoleProduct:  {"product", "desc", "item", "hang", "ten", "sku", "stockcode"},
		model.RoleCountry:  {"country", "nation", "quoc_gia", "vung", "region"},
	}
}

// New creates a Mapper with the default keyword tables.
func New(logger *zap.Logger) *Mapper {
	return &Mapper{
		logger:   logger,
		keywords: defaultKeywords(),
	}
}

// WithKeywords replaces the keyword list for a single role and returns the
// modified mapper.
func (m *Mapper) WithKeywords(role model.Role, terms []string) *Mapper {
	m.keywords[role] = terms
	return m
}

// Map produces a ColumnMapping for the given header. Pure function of the
// column names and the keyword tables; the same input always yields the same
// mapping.
func (m *Mapper) Map(columns []string) model.ColumnMapping {
	mapping := make(model.ColumnMapping, len(m.keywords))

	for _, role := range model.Roles() {
		found := ""
		for _, term := range m.keywords[role] {
			for _, col := range columns {
				if model.ContainsFold(col, term) {
					found = col
					break
				}
			}
			if found != "" {
				break
			}
		}

		mapping[role] = found

		if found == "" {
			m.logger.Debug("No column matched role",
				zap.String("role", string(role)))
		} else {
			m.logger.Debug("Mapped column to role",
				zap.String("role", string(role)),
				zap.String("column", found))
		}
	}

	m.logger.Info("Column mapping guessed",
		zap.Int("columns", len(columns)),
		zap.Int("missingRequired", len(mapping.MissingRequired())))

	return mapping
}
