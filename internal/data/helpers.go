package data

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date at day granularity. It marshals to and from
// "YYYY-MM-DD" but also accepts full RFC 3339 timestamps on input, since
// clients send both.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
		}
	}

	*d = DateOf(t)
	return nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

type DateRange struct {
	AfterDate  *Date `json:"after_date,omitempty"`
	BeforeDate *Date `json:"before_date,omitempty"`
}

func (r DateRange) IsEmpty() bool {
	return r.AfterDate == nil && r.BeforeDate == nil
}

func (r DateRange) IsFull() bool {
	return r.AfterDate != nil && r.BeforeDate != nil
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r DateRange) Contains(d Date) bool {
	if r.AfterDate != nil && d.Before(r.AfterDate.Time) {
		return false
	}
	if r.BeforeDate != nil && d.After(r.BeforeDate.Time) {
		return false
	}
	return true
}
