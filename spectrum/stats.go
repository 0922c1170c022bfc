package spectrum

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a spectrum.
type Summary struct {
	Length  int
	XMin    float64
	XMax    float64
	Max     float64
	MaxPos  int
	Min     float64
	MinPos  int
	Mean    float64
	StdDev  float64
	Descend bool // X decreases from first to last sample
}

// Summary computes descriptive statistics of the absorbance values.
func (s *Spectrum) Summary() Summary {
	maxPos := argMax(s.y)
	minPos := floats.MinIdx(s.y)
	mean, std := stat.MeanStdDev(s.y, nil)

	return Summary{
		Length:  len(s.y),
		XMin:    floats.Min(s.x),
		XMax:    floats.Max(s.x),
		Max:     s.y[maxPos],
		MaxPos:  maxPos,
		Min:     s.y[minPos],
		MinPos:  minPos,
		Mean:    mean,
		StdDev:  std,
		Descend: s.x[len(s.x)-1] < s.x[0],
	}
}

func argMax(v []float64) int {
	return floats.MaxIdx(v)
}

func argMinRange(v []float64, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(v) {
		to = len(v)
	}
	if from >= to {
		return -1
	}
	return from + floats.MinIdx(v[from:to])
}
