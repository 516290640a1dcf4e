// pkg/standardize/coerce.go
package standardize

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// currencyScrubber removes the formatting noise commonly embedded in exported
// money and quantity cells. Only these literal characters are touched.
var currencyScrubber = strings.NewReplacer(
	"$", "",
	",", "",
	" ", "",
	"%", "",
)

// dateFormats are tried in order when a date cell arrives as text. Retail
// exports are wildly inconsistent, so both day-resolution and
// minute-resolution layouts appear here.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
}

// scrubCurrency strips currency/format characters from string-typed values.
// Non-string values pass through untouched. A repair record is produced only
// when the scrub actually changed the cell.
func scrubCurrency(value interface{}, column string, row int) (interface{}, []model.RepairOperation) {
	strValue, ok := value.(string)
	if !ok {
		return value, nil
	}

	cleaned := currencyScrubber.Replace(strValue)
	if cleaned == strValue {
		return value, nil
	}

	op := model.RepairOperation{
		ColumnName:    column,
		RowIndex:      row,
		OriginalValue: strValue,
		NewValue:      cleaned,
		Operation:     model.RepairCurrencyStrip,
		Reason:        "currency_or_format_characters",
		RepairedAt:    time.Now(),
	}
	return cleaned, []model.RepairOperation{op}
}

// coerceDate parses a cell as a date-time. A missing cell stays null without
// a repair record; a present but unparseable cell is coerced to null and
// audited. Never fatal.
func coerceDate(value interface{}, column string, row int) (*time.Time, *model.RepairOperation) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		cleaned := strings.TrimSpace(v)
		if cleaned == "" {
			return nil, nil
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, cleaned); err == nil {
				return &t, nil
			}
		}
	}

	return nil, &model.RepairOperation{
		ColumnName:    column,
		RowIndex:      row,
		OriginalValue: value,
		NewValue:      "",
		Operation:     model.RepairNullDate,
		Reason:        "unparseable_date",
		RepairedAt:    time.Now(),
	}
}

// coerceNumber parses a cell as a float. A missing cell defaults to 0
// silently (the defined fallback for absent values); a present but
// unparseable cell defaults to 0 and is audited.
func coerceNumber(value interface{}, column string, row int) (float64, *model.RepairOperation) {
	if value == nil {
		return 0, nil
	}

	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, &model.RepairOperation{
			ColumnName:    column,
			RowIndex:      row,
			OriginalValue: value,
			NewValue:      "0",
			Operation:     model.RepairDefaultZero,
			Reason:        "unparseable_number",
			RepairedAt:    time.Now(),
		}
	}

	return f, nil
}
