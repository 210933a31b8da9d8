package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldError pinpoints one offending field in a rejected input document.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// FieldErrors collects every boundary validation failure so callers see the
// full list at once instead of fixing fields one round-trip at a time.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Msg
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (fe *FieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Msg: fmt.Sprintf(format, args...)})
}

// WirePoint is one load sample as it arrives on the wire.
type WirePoint struct {
	TS     string   `json:"ts"`
	LoadKW *float64 `json:"load_kw"`
}

// WireCell is one schedule hour on the wire.
type WireCell struct {
	Tier string `json:"tier"`
	Op   string `json:"op"`
}

// WireOverride is a date override rule on the wire. Dates use YYYY-MM-DD.
type WireOverride struct {
	Name     string     `json:"name"`
	Start    string     `json:"start_date"`
	End      string     `json:"end_date"`
	Annual   bool       `json:"annual"`
	Schedule []WireCell `json:"schedule"`
}

// Scenario is the full simulation input document.
type Scenario struct {
	Points    []WirePoint                   `json:"points"`
	Matrix    map[string][]WireCell         `json:"schedule_matrix"`
	Overrides []WireOverride                `json:"override_rules"`
	Prices    map[string]map[string]float64 `json:"prices"`
}

// ScenarioData is the validated, fully typed form the engine consumes.
type ScenarioData struct {
	Series LoadSeries
	Matrix ScheduleMatrix
	Rules  []DateOverrideRule
	Prices PriceMap
}

// ParseScenario decodes and validates a scenario document. Unparseable
// timestamps and absent load values are dropped and counted rather than
// rejected; structural defects (bad tier names, wrong cell counts, bad month
// keys) are all collected into one FieldErrors. A scenario with no usable
// load points at all is a hard error.
func ParseScenario(data []byte) (*ScenarioData, error) {
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return sc.Resolve()
}

// Resolve validates the wire document and builds the typed form.
func (sc Scenario) Resolve() (*ScenarioData, error) {
	var errs FieldErrors
	out := &ScenarioData{}

	raw := make([]LoadPoint, 0, len(sc.Points))
	dropped := 0
	for _, wp := range sc.Points {
		if wp.LoadKW == nil {
			dropped++
			continue
		}
		t, err := parseTimestamp(wp.TS)
		if err != nil {
			dropped++
			continue
		}
		raw = append(raw, LoadPoint{Ts: t, LoadKW: *wp.LoadKW})
	}
	out.Series = NewLoadSeries(raw)
	out.Series.Dropped += dropped
	if len(out.Series.Points) == 0 {
		errs.add("points", "no usable load samples")
	}

	for key, cells := range sc.Matrix {
		field := "schedule_matrix." + key
		month, err := parseMonthKey(key)
		if err != nil {
			errs.add(field, "%v", err)
			continue
		}
		day, cellErrs := resolveDay(field, cells)
		if len(cellErrs) > 0 {
			errs = append(errs, cellErrs...)
			continue
		}
		out.Matrix[month-1] = &day
	}

	for i, wo := range sc.Overrides {
		field := fmt.Sprintf("override_rules[%d]", i)
		rule := DateOverrideRule{Name: wo.Name, Annual: wo.Annual}
		var err error
		if rule.Start, err = time.Parse("2006-01-02", wo.Start); err != nil {
			errs.add(field+".start_date", "want YYYY-MM-DD, got %q", wo.Start)
		}
		if rule.End, err = time.Parse("2006-01-02", wo.End); err != nil {
			errs.add(field+".end_date", "want YYYY-MM-DD, got %q", wo.End)
		}
		day, cellErrs := resolveDay(field+".schedule", wo.Schedule)
		if len(cellErrs) > 0 {
			errs = append(errs, cellErrs...)
			continue
		}
		rule.Schedule = day
		out.Rules = append(out.Rules, rule)
	}

	for key, tiers := range sc.Prices {
		field := "prices." + key
		month, err := parseMonthKey(key)
		if err != nil {
			errs.add(field, "%v", err)
			continue
		}
		tp := TierPrices{}
		for name, price := range tiers {
			tier, err := ParseTier(name)
			if err != nil {
				errs.add(field+"."+name, "%v", err)
				continue
			}
			if price < 0 {
				errs.add(field+"."+name, "price must be >= 0, got %v", price)
				continue
			}
			tp[tier] = price
		}
		out.Prices[month-1] = tp
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func resolveDay(field string, cells []WireCell) (Schedule24, FieldErrors) {
	var day Schedule24
	var errs FieldErrors
	if len(cells) != 24 {
		errs.add(field, "want 24 cells, got %d", len(cells))
		return day, errs
	}
	for h, c := range cells {
		tier, err := ParseTier(c.Tier)
		if err != nil {
			errs.add(fmt.Sprintf("%s[%d].tier", field, h), "%v", err)
		}
		op, err := ParseOp(c.Op)
		if err != nil {
			errs.add(fmt.Sprintf("%s[%d].op", field, h), "%v", err)
		}
		day[h] = ScheduleCell{Tier: tier, Op: op}
	}
	return day, errs
}

func parseMonthKey(key string) (int, error) {
	m, err := strconv.Atoi(key)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("want month 1..12, got %q", key)
	}
	return m, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
