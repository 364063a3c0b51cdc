package driver

import "ojc/internal/observ"

// Timings reports the phases run so far. Files counts the sources
// loaded, prelude excluded.
func (s *Session) Timings() observ.Report {
	r := s.Timer.Report()
	r.Files = len(s.units)
	return r
}
