package scenario

// Defaults applied to scenario sections before validation.
const (
	// DefaultScale is the lookup-table digit width when a queue section
	// leaves scale unset.
	DefaultScale = 100

	// DefaultIntervals is the chi-square bin count when an rng section
	// leaves intervals unset.
	DefaultIntervals = 10

	// DefaultAlpha is the significance level when an rng section leaves
	// alpha unset.
	DefaultAlpha = 0.05

	// DefaultPriority is the server preferred when both are idle and a
	// two-server section leaves priority unset.
	DefaultPriority = 1
)

// ApplyDefaults fills unset fields in place. Load calls it after decoding
// and before validation, so a validated scenario is fully resolved.
func (s *Scenario) ApplyDefaults() {
	if s.Queue != nil && s.Queue.Scale == 0 {
		s.Queue.Scale = DefaultScale
	}
	if s.TwoServer != nil {
		if s.TwoServer.Scale == 0 {
			s.TwoServer.Scale = DefaultScale
		}
		if s.TwoServer.Priority == 0 {
			s.TwoServer.Priority = DefaultPriority
		}
	}
	if s.RNG != nil {
		if s.RNG.Intervals == 0 {
			s.RNG.Intervals = DefaultIntervals
		}
		if s.RNG.Alpha == 0 {
			s.RNG.Alpha = DefaultAlpha
		}
	}
}
