package scoring

// ReadingLevel classifies oral reading accuracy.
type ReadingLevel string

const (
	LevelIndependent   ReadingLevel = "independent"
	LevelInstructional ReadingLevel = "instructional"
	LevelFrustration   ReadingLevel = "frustration"
)

const (
	// IndependentThreshold is the minimum accuracy for independent reading.
	IndependentThreshold = 95
	// InstructionalThreshold is the minimum accuracy for instructional reading.
	InstructionalThreshold = 90
)

// LevelForAccuracy maps an accuracy percentage to a reading level.
func LevelForAccuracy(accuracy int) ReadingLevel {
	switch {
	case accuracy >= IndependentThreshold:
		return LevelIndependent
	case accuracy >= InstructionalThreshold:
		return LevelInstructional
	default:
		return LevelFrustration
	}
}

// DisplayName returns a human-readable label for the level.
func (l ReadingLevel) DisplayName() string {
	switch l {
	case LevelIndependent:
		return "Independent"
	case LevelInstructional:
		return "Instructional"
	case LevelFrustration:
		return "Frustration"
	default:
		return string(l)
	}
}
