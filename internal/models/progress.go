// ABOUTME: Completion progress derived from a session's exercises.
// ABOUTME: Ratio is completed/max(total,1) so empty sessions report 0.
package models

// SessionProgress summarizes how many exercises of a session are done.
type SessionProgress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
}

// Progress counts completed exercises of s. Session-level IsCompleted is not consulted.
func Progress(s *WorkoutSession) SessionProgress {
	p := SessionProgress{Total: len(s.Exercises)}
	for _, ex := range s.Exercises {
		if ex.IsCompleted {
			p.Completed++
		}
	}
	p.Ratio = float64(p.Completed) / float64(max(p.Total, 1))
	return p
}

// Percent returns the ratio as a whole-number percentage.
func (p SessionProgress) Percent() int {
	return int(p.Ratio*100 + 0.5)
}
