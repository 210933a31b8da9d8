package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TariffTier identifies a time-of-use price bracket within a day.
type TariffTier int

const (
	TierSuperPeak TariffTier = iota
	TierPeak
	TierFlat
	TierValley
	TierDeepValley
)

var tierNames = map[TariffTier]string{
	TierSuperPeak:  "super_peak",
	TierPeak:       "peak",
	TierFlat:       "flat",
	TierValley:     "valley",
	TierDeepValley: "deep_valley",
}

var tiersByName = map[string]TariffTier{
	"super_peak":  TierSuperPeak,
	"peak":        TierPeak,
	"flat":        TierFlat,
	"valley":      TierValley,
	"deep_valley": TierDeepValley,
}

func (t TariffTier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier converts a wire name into a TariffTier.
func ParseTier(s string) (TariffTier, error) {
	if t, ok := tiersByName[s]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown tariff tier %q", s)
}

func (t TariffTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TariffTier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// AllTiers lists every tier in display order.
var AllTiers = []TariffTier{TierSuperPeak, TierPeak, TierFlat, TierValley, TierDeepValley}

// DispatchCode is the operating instruction for one schedule hour.
type DispatchCode int

const (
	OpStandby DispatchCode = iota
	OpCharge
	OpDischarge
)

var opNames = map[DispatchCode]string{
	OpStandby:   "standby",
	OpCharge:    "charge",
	OpDischarge: "discharge",
}

var opsByName = map[string]DispatchCode{
	"standby":   OpStandby,
	"charge":    OpCharge,
	"discharge": OpDischarge,
}

func (o DispatchCode) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp converts a wire name into a DispatchCode.
func ParseOp(s string) (DispatchCode, error) {
	if o, ok := opsByName[s]; ok {
		return o, nil
	}
	return 0, fmt.Errorf("unknown dispatch code %q", s)
}

func (o DispatchCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *DispatchCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseOp(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ScheduleCell holds the tier and dispatch code effective for one hour.
type ScheduleCell struct {
	Tier TariffTier   `json:"tier"`
	Op   DispatchCode `json:"op"`
}

// Schedule24 is the resolved 24-hour schedule for one calendar day.
type Schedule24 [24]ScheduleCell

// StandbyDay returns an all-standby, all-flat schedule. It is the named
// fallback used when neither an override rule nor a monthly row matches.
func StandbyDay() Schedule24 {
	var s Schedule24
	for h := range s {
		s[h] = ScheduleCell{Tier: TierFlat, Op: OpStandby}
	}
	return s
}

// ScheduleMatrix maps month (1..12) to its default 24-hour schedule.
// A nil entry means the month is not configured.
type ScheduleMatrix [12]*Schedule24

// Row returns the schedule for the given month, if configured.
func (m ScheduleMatrix) Row(month time.Month) (Schedule24, bool) {
	idx := int(month) - 1
	if idx < 0 || idx > 11 || m[idx] == nil {
		return Schedule24{}, false
	}
	return *m[idx], true
}

// DateOverrideRule replaces the monthly default for dates inside its closed
// interval. Annual rules match on month and day only, ignoring the year.
type DateOverrideRule struct {
	Name     string     `json:"name"`
	Start    time.Time  `json:"start_date"`
	End      time.Time  `json:"end_date"`
	Annual   bool       `json:"annual,omitempty"`
	Schedule Schedule24 `json:"schedule"`
}

// Contains reports whether the rule covers the given calendar day.
func (r DateOverrideRule) Contains(d time.Time) bool {
	day := civil(d)
	if r.Annual {
		md := monthDay(day)
		lo, hi := monthDay(r.Start), monthDay(r.End)
		if lo <= hi {
			return md >= lo && md <= hi
		}
		// Interval wrapping the year boundary, e.g. Dec 20 .. Jan 5.
		return md >= lo || md <= hi
	}
	return !day.Before(civil(r.Start)) && !day.After(civil(r.End))
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

// TierPrices maps tier to price per kWh for one month. A missing tier means
// the price is unset and the default table applies.
type TierPrices map[TariffTier]float64

// PriceMap holds the per-month tier prices, index 0 = January.
type PriceMap [12]TierPrices

// DefaultPrices is the fixed fallback table used when a month leaves a tier
// unpriced.
var DefaultPrices = TierPrices{
	TierSuperPeak:  1.2,
	TierPeak:       1.0,
	TierFlat:       0.7,
	TierValley:     0.4,
	TierDeepValley: 0.2,
}

// Price resolves the price for a tier in a month. The second return value is
// false when the fallback table supplied the value.
func (p PriceMap) Price(month time.Month, tier TariffTier) (float64, bool) {
	idx := int(month) - 1
	if idx >= 0 && idx <= 11 && p[idx] != nil {
		if v, ok := p[idx][tier]; ok {
			return v, true
		}
	}
	return DefaultPrices[tier], false
}
