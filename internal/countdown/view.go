package countdown

import "time"

// View is the JSON form of a State.
type View struct {
	Phase            Phase  `json:"phase"`
	Label            string `json:"label"`
	Target           string `json:"target"`
	TargetClock      string `json:"target_clock"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Remaining        string `json:"remaining"`
	Fasting          bool   `json:"fasting"`
	Day              int    `json:"day"`
	Date             string `json:"date"`
	TodayFallback    bool   `json:"today_fallback,omitempty"`
	NextFallback     bool   `json:"next_fallback,omitempty"`
	Invalid          bool   `json:"invalid,omitempty"`
}

// View renders the state; timeLayout formats TargetClock.
func (s State) View(timeLayout string) View {
	return View{
		Phase:            s.Phase,
		Label:            s.Phase.Label(),
		Target:           s.Target.Format(time.RFC3339),
		TargetClock:      s.Target.Format(timeLayout),
		RemainingSeconds: int64(s.Remaining / time.Second),
		Remaining:        FormatClockDuration(s.Remaining),
		Fasting:          s.Fasting(),
		Day:              s.Today.Index,
		Date:             s.Today.Key.String(),
		TodayFallback:    s.TodayFallback,
		NextFallback:     s.NextFallback,
		Invalid:          s.Invalid,
	}
}
