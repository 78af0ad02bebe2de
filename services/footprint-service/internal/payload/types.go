package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidDate   = errors.New("invalid date")
)

// Number is a float64 that decodes from a JSON number or a numeric string.
// NaN and infinities are rejected.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)

	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return ErrInvalidNumber
		}
	} else {
		s = string(raw)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	*n = Number(v)
	return nil
}

// Float64 returns a pointer to the value, or nil for a nil Number.
func (n *Number) Float64() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

// Timestamp decodes from an RFC 3339 string or a YYYY-MM-DD date taken as
// midnight UTC.
type Timestamp time.Time

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}

	*t = Timestamp(parsed)
	return nil
}

// Time returns a pointer to the value, or nil for a nil Timestamp.
func (t *Timestamp) Time() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t).UTC()
	return &v
}

// ParseTime parses s as RFC 3339 or as a YYYY-MM-DD date in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
