package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the layout used for date-only input and display
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
}

// Date is a calendar timestamp exchanged with the API. The backend stores
// date-times, while forms send plain dates, so both are accepted.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate parses RFC 3339 timestamps and YYYY-MM-DD dates
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, goerr.New("invalid date format", goerr.V(ValueKey, s))
}

// String returns the date part, or an empty string for the zero value
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the zero value as null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

// UnmarshalJSON accepts null, empty strings and any supported layout
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return goerr.Wrap(err, "date must be a string")
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
