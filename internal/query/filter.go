// Package query turns flat list-endpoint parameters into store predicates.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/station/internal/domain/models"
)

// AllValue is the sentinel select value meaning "no constraint".
const AllValue = "All"

// Op is a comparison understood by the record store.
type Op string

const (
	OpContains Op = "contains"
	OpGTE      Op = "gte"
	OpLTE      Op = "lte"
)

// Condition constrains a single document field.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is an opaque predicate over one resource collection.
type Filter struct {
	conditions []Condition
}

// Conditions returns the constraints in the order they were built.
func (f Filter) Conditions() []Condition {
	out := make([]Condition, len(f.conditions))
	copy(out, f.conditions)
	return out
}

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool {
	return len(f.conditions) == 0
}

// BSON renders the filter as a MongoDB query document. Conditions on the same
// field are merged into a single operator document.
func (f Filter) BSON() bson.D {
	doc := bson.D{}
	index := map[string]int{}
	for _, c := range f.conditions {
		var op bson.E
		switch c.Op {
		case OpContains:
			op = bson.E{Key: "$regex", Value: primitive.Regex{Pattern: regexp.QuoteMeta(fmt.Sprint(c.Value)), Options: "i"}}
		case OpGTE:
			op = bson.E{Key: "$gte", Value: c.Value}
		case OpLTE:
			op = bson.E{Key: "$lte", Value: c.Value}
		default:
			continue
		}

		if i, ok := index[c.Field]; ok {
			ops := doc[i].Value.(bson.D)
			doc[i].Value = append(ops, op)
			continue
		}
		index[c.Field] = len(doc)
		doc = append(doc, bson.E{Key: c.Field, Value: bson.D{op}})
	}
	return doc
}

// Params flattens URL query values, keeping the first value of each key.
func Params(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Build translates params into a Filter for the given resource schema.
//
// Empty values and the "All" sentinel are ignored, as are parameters the schema
// does not declare. Text fields match case-insensitive substrings, Min/Max bounds
// map to >= and <=, and dateTo covers the whole calendar day in loc.
func Build(schema models.Schema, params map[string]string, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.Local
	}

	var f Filter
	for _, field := range schema.Fields {
		var lower, upper *float64
		var from, to time.Time

		for _, param := range field.Filters {
			raw, ok := lookup(params, param)
			if !ok {
				continue
			}

			switch field.Kind {
			case models.FieldText, models.FieldSelect:
				f.conditions = append(f.conditions, Condition{Field: field.Name, Op: OpContains, Value: raw})

			case models.FieldNumber:
				v, err := parseNumber(param, raw)
				if err != nil {
					return Filter{}, err
				}
				if strings.HasSuffix(param, "Min") {
					lower = &v
					f.conditions = append(f.conditions, Condition{Field: field.Name, Op: OpGTE, Value: v})
				} else {
					upper = &v
					f.conditions = append(f.conditions, Condition{Field: field.Name, Op: OpLTE, Value: v})
				}

			case models.FieldDate:
				d, err := models.ParseDate(raw, loc)
				if err != nil {
					return Filter{}, fmt.Errorf("%s: %v: %w", param, err, models.ErrValidation)
				}
				start := StartOfDay(d.Time, loc)
				if param == "dateTo" {
					to = EndOfDay(d.Time, loc)
					f.conditions = append(f.conditions, Condition{Field: field.Name, Op: OpLTE, Value: to})
				} else {
					from = start
					f.conditions = append(f.conditions, Condition{Field: field.Name, Op: OpGTE, Value: from})
				}
			}
		}

		if lower != nil && upper != nil && *lower > *upper {
			return Filter{}, fmt.Errorf("%s: minimum %v exceeds maximum %v: %w", field.Name, *lower, *upper, models.ErrValidation)
		}
		if !from.IsZero() && !to.IsZero() && from.After(to) {
			return Filter{}, fmt.Errorf("%s: dateFrom is after dateTo: %w", field.Name, models.ErrValidation)
		}
	}

	return f, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func lookup(params map[string]string, key string) (string, bool) {
	raw := strings.TrimSpace(params[key])
	if raw == "" || strings.EqualFold(raw, AllValue) {
		return "", false
	}
	return raw, true
}

func parseNumber(param, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %q is not a number: %w", param, raw, models.ErrValidation)
	}
	return v, nil
}
