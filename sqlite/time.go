package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timeFormats are the layouts SQLite and its drivers commonly store times in.
var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// timeValue scans a time stored either natively, as text or as unix seconds.
type timeValue struct {
	Time time.Time
}

func (v *timeValue) Scan(src any) error {
	switch value := src.(type) {
	case time.Time:
		v.Time = value
		return nil
	case int64:
		v.Time = time.Unix(value, 0)
		return nil
	case string:
		return v.parse(value)
	case []byte:
		return v.parse(string(value))
	case nil:
		return fmt.Errorf("time is null")
	default:
		return fmt.Errorf("unsupported time type %T", src)
	}
}

func (v *timeValue) parse(s string) error {
	// Drop the monotonic clock reading written by time.Time.String
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			v.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse time %q", s)
}
