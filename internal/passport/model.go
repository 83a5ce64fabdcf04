package passport

import "time"

// Passport represents one loyalty-card holder.
type Passport struct {
	ID          string
	Code        string
	HolderName  string
	Completions []Completion
	CreatedAt   time.Time
}

// Completion is one redeemed activity stamp. Order within a passport is
// chronological, oldest first.
type Completion struct {
	ActivityTitle string    `json:"activity_title"`
	Color         string    `json:"color"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Has reports whether the passport already holds a stamp for the
// activity title.
func (p Passport) Has(activityTitle string) bool {
	for _, c := range p.Completions {
		if c.ActivityTitle == activityTitle {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can stage an updated completion
// list without mutating shared state.
func (p Passport) Clone() Passport {
	out := p
	out.Completions = make([]Completion, len(p.Completions))
	copy(out.Completions, p.Completions)
	return out
}
