package calendar

import "time"

// View is the JSON form of a Snapshot.
type View struct {
	Location  string `json:"location"`
	Label     string `json:"label"`
	Timezone  string `json:"timezone"`
	Today     Key    `json:"today,omitempty"`
	Days      []Day  `json:"days"`
	Misses    []Key  `json:"misses,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
	LoadedAt  string `json:"loaded_at,omitempty"`
}

// View renders the snapshot as seen at now. Today is set only when a Day
// matches now's date in the snapshot's location.
func (s *Snapshot) View(now time.Time) View {
	v := View{
		Location:  s.Preset.Key,
		Label:     s.Preset.Label,
		Timezone:  s.Preset.Timezone,
		Days:      s.Days,
		Misses:    s.Misses,
		Available: !s.Unavailable(),
	}
	if v.Days == nil {
		v.Days = []Day{}
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if !s.LoadedAt.IsZero() {
		v.LoadedAt = s.LoadedAt.Format(time.RFC3339)
	}

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	key := KeyOf(now.In(loc))
	for _, d := range s.Days {
		if d.Key == key {
			v.Today = key
			break
		}
	}
	return v
}
