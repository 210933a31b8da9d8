package schedule

import (
	"time"

	"github.com/qmorane/tousim/core/model"
)

// Source identifies where a resolved day schedule came from.
type Source int

const (
	SourceOverride Source = iota
	SourceMonthly
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceMonthly:
		return "monthly"
	default:
		return "fallback"
	}
}

// Resolver maps calendar days to their effective 24-hour schedule. It is
// built once per run from immutable configuration and owned by the caller.
type Resolver struct {
	matrix model.ScheduleMatrix
	rules  []model.DateOverrideRule
}

// NewResolver builds a resolver over the monthly matrix and the override
// rules, evaluated in the given order.
func NewResolver(matrix model.ScheduleMatrix, rules []model.DateOverrideRule) *Resolver {
	return &Resolver{matrix: matrix, rules: rules}
}

// Resolve returns the schedule effective on the given day. Override rules
// are scanned in order and the first match wins; otherwise the month's
// default row applies. Days with neither get the all-standby fallback, which
// is a documented default rather than an error.
func (r *Resolver) Resolve(day time.Time) (model.Schedule24, Source) {
	for _, rule := range r.rules {
		if rule.Contains(day) {
			return rule.Schedule, SourceOverride
		}
	}
	if row, ok := r.matrix.Row(day.Month()); ok {
		return row, SourceMonthly
	}
	return model.StandbyDay(), SourceFallback
}
