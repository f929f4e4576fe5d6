package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const yearMonthLayout = "2006-01"

// YearMonth is a calendar month without a day component, used for card expiration.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses the "YYYY-MM" form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) After(other YearMonth) bool {
	return other.Before(ym)
}

// AddMonths shifts the month by n, which may be negative.
func (ym YearMonth) AddMonths(n int) YearMonth {
	return YearMonthOf(ym.firstDay().AddDate(0, n, 0))
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) firstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("year-month must be a string: %w", err)
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Value stores the month as the first day of that month in a DATE column.
func (ym YearMonth) Value() (driver.Value, error) {
	return ym.firstDay(), nil
}

func (ym *YearMonth) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ym = YearMonthOf(v)
		return nil
	case string:
		return ym.scanText(v)
	case []byte:
		return ym.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into YearMonth", src)
	}
}

func (ym *YearMonth) scanText(s string) error {
	if len(s) >= len("2006-01-02") {
		s = s[:len(yearMonthLayout)]
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
