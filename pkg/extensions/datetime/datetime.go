// Package datetime provides date helpers over ISO-8601 strings.
package datetime

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

// ISOLayout matches the output of JavaScript's Date.toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

func init() {
	extensions.Register("date", "date, date_format, date_diff, date_add", func(opts extensions.Options) (interp.Extension, error) {
		return New(opts.Location, time.Now), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	loc *time.Location
	now func() time.Time
}

// New creates a date extension. loc is used to read calendar fields in
// date_format and to interpret timestamps without a zone.
func New(loc *time.Location, now func() time.Time) *Extension {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Extension{loc: loc, now: now}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "date" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return interp.Funcs{ExtName: e.Name(), Fns: map[string]interp.NativeFn{
		"date":        e.date,
		"date_format": e.format,
		"date_diff":   e.diff,
		"date_add":    e.add,
	}}.Register(globals)
}

func (e *Extension) date(context.Context, []interp.Value) (interp.Value, error) {
	return e.now().UTC().Format(ISOLayout), nil
}

// format replaces the first occurrence of each of DD, MM, YYYY, HH, mm and
// ss in the pattern.
func (e *Extension) format(_ context.Context, args []interp.Value) (interp.Value, error) {
	pattern, err := interp.StringArg("date_format", args, 0)
	if err != nil {
		return nil, err
	}
	t, err := e.timeArg("date_format", args, 1)
	if err != nil {
		return nil, err
	}
	t = t.In(e.loc)

	out := pattern
	for _, r := range []struct{ token, value string }{
		{"DD", pad(t.Day())},
		{"MM", pad(int(t.Month()))},
		{"YYYY", strconv.Itoa(t.Year())},
		{"HH", pad(t.Hour())},
		{"mm", pad(t.Minute())},
		{"ss", pad(t.Second())},
	} {
		out = strings.Replace(out, r.token, r.value, 1)
	}
	return out, nil
}

// diff returns the absolute distance between two dates. year and month
// compare calendar fields; smaller units are fractional.
func (e *Extension) diff(_ context.Context, args []interp.Value) (interp.Value, error) {
	a, err := e.timeArg("date_diff", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := e.timeArg("date_diff", args, 1)
	if err != nil {
		return nil, err
	}
	unit, err := interp.StringArg("date_diff", args, 2)
	if err != nil {
		return nil, err
	}

	a, b = a.In(e.loc), b.In(e.loc)
	d := a.Sub(b)
	switch unit {
	case "year":
		return math.Abs(float64(a.Year() - b.Year())), nil
	case "month":
		months := int(a.Month()) - int(b.Month()) + 12*(a.Year()-b.Year())
		return math.Abs(float64(months)), nil
	case "day":
		return math.Abs(d.Hours() / 24), nil
	case "hour":
		return math.Abs(d.Hours()), nil
	case "minute":
		return math.Abs(d.Minutes()), nil
	case "second":
		return math.Abs(d.Seconds()), nil
	}
	return nil, fmt.Errorf("invalid unit %q", unit)
}

func (e *Extension) add(_ context.Context, args []interp.Value) (interp.Value, error) {
	t, err := e.timeArg("date_add", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := interp.NumberArg("date_add", args, 1)
	if err != nil {
		return nil, err
	}
	unit, err := interp.StringArg("date_add", args, 2)
	if err != nil {
		return nil, err
	}

	t = t.In(e.loc)
	switch unit {
	case "year":
		t = t.AddDate(int(n), 0, 0)
	case "month":
		t = t.AddDate(0, int(n), 0)
	case "day":
		t = t.AddDate(0, 0, int(n))
	case "hour":
		t = t.Add(time.Duration(n * float64(time.Hour)))
	case "minute":
		t = t.Add(time.Duration(n * float64(time.Minute)))
	case "second":
		t = t.Add(time.Duration(n * float64(time.Second)))
	default:
		return nil, fmt.Errorf("invalid unit %q", unit)
	}
	return t.UTC().Format(ISOLayout), nil
}

func (e *Extension) timeArg(fn string, args []interp.Value, idx int) (time.Time, error) {
	s, err := interp.StringArg(fn, args, idx)
	if err != nil {
		return time.Time{}, err
	}
	t, err := Parse(s, e.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Parse reads an ISO-8601 timestamp. A date on its own is UTC midnight; a
// date and time without a zone is read in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.DateTime} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}
