package power

import (
	"time"

	"github.com/qmorane/tousim/core/model"
)

// LimitProvider resolves the grid import ceiling effective on a given day.
type LimitProvider struct {
	mode        model.LimitMode
	transformer float64
	monthlyMax  map[int]float64
}

// NewLimitProvider builds a provider from storage parameters and the
// per-month demand maxima observed in the load series.
func NewLimitProvider(p model.StorageParams, monthlyMax map[int]float64) *LimitProvider {
	return &LimitProvider{
		mode:        p.LimitMode,
		transformer: p.TransformerKVA * p.TransformerRatio,
		monthlyMax:  monthlyMax,
	}
}

// ForDay returns the ceiling in kW. In demand mode a month with no recorded
// maximum yields 0, which downstream treats as "no headroom" rather than an
// error.
func (lp *LimitProvider) ForDay(day time.Time) float64 {
	if lp.mode == model.LimitTransformer && lp.transformer > 0 {
		return lp.transformer
	}
	return lp.monthlyMax[day.Year()*100+int(day.Month())]
}
