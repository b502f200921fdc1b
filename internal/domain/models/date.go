package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date exchanged as yyyy-MM-dd in JSON and stored as a BSON datetime.
// The zero value means the date is missing.
type Date struct {
	time.Time
}

var location atomic.Pointer[time.Location]

// SetLocation sets the timezone calendar dates are decoded in. nil restores time.Local.
func SetLocation(loc *time.Location) {
	location.Store(loc)
}

// Location returns the timezone calendar dates are decoded in.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	return time.Local
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate accepts yyyy-MM-dd or RFC3339 values. Plain dates are interpreted in loc.
func ParseDate(value string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = Location()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return Date{Time: t.In(loc)}, nil
}

// Valid reports whether the date is set.
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

// Anchor keeps the calendar day of d and moves it to midnight in loc.
func (d Date) Anchor(loc *time.Location) Date {
	if !d.Valid() {
		return d
	}
	if loc == nil {
		loc = Location()
	}
	y, m, day := d.Time.Date()
	return Date{Time: time.Date(y, m, day, 0, 0, 0, 0, loc)}
}

// InLocation keeps the instant of d and expresses it in loc, so it encodes as
// the calendar day seen in loc.
func (d Date) InLocation(loc *time.Location) Date {
	if !d.Valid() || loc == nil {
		return d
	}
	return Date{Time: d.Time.In(loc)}
}

// MarshalJSON encodes the date as yyyy-MM-dd in its own location, or null when missing.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

// UnmarshalJSON decodes yyyy-MM-dd or RFC3339 strings in Location().
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw, Location())
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a BSON datetime, or null when missing.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !d.Valid() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(d.Time)
}

// UnmarshalBSONValue reads datetimes and yyyy-MM-dd strings into Location().
// Anything else leaves the date missing.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDateTime:
		*d = Date{Time: raw.Time().In(Location())}
	case bson.TypeString:
		parsed, err := ParseDate(raw.StringValue(), Location())
		if err != nil {
			*d = Date{}
			return nil
		}
		*d = parsed
	default:
		*d = Date{}
	}
	return nil
}
