// Package gradescale implements the fixed percent-to-letter and
// letter-to-grade-point conversions used for grading and CGPA computation.
// All functions are pure and stateless.
package gradescale

import (
	"math"

	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

// Letter is a coarse categorical grade derived from a percent score.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Thresholds are contiguous and non-overlapping over [0,100]. A percent on
// an exact boundary maps to the higher letter.
const (
	minPercent = 0
	maxPercent = 100
)

// LetterFor maps a percent score to its letter grade. Scores outside
// [0,100] are a caller error.
func LetterFor(percent float64) (Letter, error) {
	if math.IsNaN(percent) || percent < minPercent || percent > maxPercent {
		return "", appErrors.Clone(appErrors.ErrValidation, "percent grade must be between 0 and 100")
	}
	switch {
	case percent >= 90:
		return LetterA, nil
	case percent >= 80:
		return LetterB, nil
	case percent >= 70:
		return LetterC, nil
	case percent >= 60:
		return LetterD, nil
	default:
		return LetterF, nil
	}
}

// PointsFor maps a letter grade to its grade-point value on a 4.0 scale.
// Unknown letters count as 0.
func PointsFor(letter Letter) float64 {
	switch letter {
	case LetterA:
		return 4.0
	case LetterB:
		return 3.0
	case LetterC:
		return 2.0
	case LetterD:
		return 1.0
	default:
		return 0.0
	}
}

// Cumulative averages the given grade points over total courses, rounded to
// two decimals. The boolean is false when total is zero: the caller must
// treat that as "no data" rather than divide by zero.
func Cumulative(points []float64, total int) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range points {
		sum += p
	}
	cgpa := sum / float64(total)
	return math.Round(cgpa*100) / 100, true
}
