package gradescale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterForBoundaries(t *testing.T) {
	cases := []struct {
		percent float64
		want    Letter
	}{
		{100, LetterA},
		{95, LetterA},
		{90, LetterA},
		{89.99, LetterB},
		{80, LetterB},
		{79.99, LetterC},
		{70, LetterC},
		{69.99, LetterD},
		{60, LetterD},
		{59.99, LetterF},
		{0, LetterF},
	}
	for _, tc := range cases {
		letter, err := LetterFor(tc.percent)
		require.NoError(t, err)
		assert.Equal(t, tc.want, letter, "percent %v", tc.percent)
	}
}

func TestLetterForOutOfRange(t *testing.T) {
	for _, percent := range []float64{-0.01, -10, 100.01, 150} {
		_, err := LetterFor(percent)
		assert.Error(t, err, "percent %v", percent)
	}
}

func TestLetterForMonotone(t *testing.T) {
	prev := 5.0
	for p := 100.0; p >= 0; p -= 0.25 {
		letter, err := LetterFor(p)
		require.NoError(t, err)
		points := PointsFor(letter)
		assert.LessOrEqual(t, points, prev, "points must not increase as percent decreases")
		prev = points
	}
}

func TestPointsForScale(t *testing.T) {
	assert.Equal(t, 4.0, PointsFor(LetterA))
	assert.Equal(t, 3.0, PointsFor(LetterB))
	assert.Equal(t, 2.0, PointsFor(LetterC))
	assert.Equal(t, 1.0, PointsFor(LetterD))
	assert.Equal(t, 0.0, PointsFor(LetterF))
	assert.Equal(t, 0.0, PointsFor(Letter("X")))
}

func TestPointsComposedWithLetter(t *testing.T) {
	letter, err := LetterFor(95)
	require.NoError(t, err)
	assert.Equal(t, LetterA, letter)
	assert.Equal(t, 4.0, PointsFor(letter))
}

func TestCumulative(t *testing.T) {
	cgpa, ok := Cumulative([]float64{4.0, 3.0}, 2)
	require.True(t, ok)
	assert.Equal(t, 3.5, cgpa)

	// One graded course (A) out of two enrolled: ungraded contributes zero
	// but stays in the denominator.
	cgpa, ok = Cumulative([]float64{4.0}, 2)
	require.True(t, ok)
	assert.Equal(t, 2.0, cgpa)

	cgpa, ok = Cumulative([]float64{4.0, 4.0, 3.0}, 3)
	require.True(t, ok)
	assert.Equal(t, 3.67, cgpa)
}

func TestCumulativeNoCourses(t *testing.T) {
	_, ok := Cumulative(nil, 0)
	assert.False(t, ok)
}
