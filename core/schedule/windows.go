package schedule

import "github.com/qmorane/tousim/core/model"

// Window is a merged run of consecutive hours sharing one dispatch code.
type Window struct {
	Kind  model.DispatchCode
	Hours []int
	// Slot is 1 for the first run of this kind in the day, 2 for the second,
	// 0 for later runs. Only slotted windows enter cycle accounting; all
	// windows dispatch power and earn revenue.
	Slot int
}

// Primary reports whether the window counts toward equivalent cycles.
func (w Window) Primary() bool { return w.Slot == 1 || w.Slot == 2 }

// DayWindows is the window set of one resolved day.
type DayWindows struct {
	All []Window
}

// Primary returns the slotted window of the given kind and slot, if present.
func (d DayWindows) Primary(kind model.DispatchCode, slot int) (Window, bool) {
	for _, w := range d.All {
		if w.Kind == kind && w.Slot == slot {
			return w, true
		}
	}
	return Window{}, false
}

// BuildWindows collapses a day schedule into dispatch windows. Consecutive
// equal non-standby codes form a run; runs shorter than thresholdMinutes are
// dropped. The first two surviving runs of each kind get slots 1 and 2.
func BuildWindows(sched model.Schedule24, thresholdMinutes int) DayWindows {
	var runs []Window
	for h := 0; h < 24; {
		op := sched[h].Op
		if op == model.OpStandby {
			h++
			continue
		}
		start := h
		for h < 24 && sched[h].Op == op {
			h++
		}
		hours := make([]int, 0, h-start)
		for i := start; i < h; i++ {
			hours = append(hours, i)
		}
		if len(hours)*60 < thresholdMinutes {
			continue
		}
		runs = append(runs, Window{Kind: op, Hours: hours})
	}

	seen := map[model.DispatchCode]int{}
	for i := range runs {
		seen[runs[i].Kind]++
		if n := seen[runs[i].Kind]; n <= 2 {
			runs[i].Slot = n
		}
	}
	return DayWindows{All: runs}
}
