package metric

import (
	"slices"
)

// Point is a single ROC curve point.
type Point struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	FPR       float64 `json:"fpr" yaml:"fpr"`
	TPR       float64 `json:"tpr" yaml:"tpr"`
}

// Curve returns the ROC curve with one point per distinct score, in
// descending threshold order. The first point is (0, 0) at a threshold
// one above the highest score, so no sample is predicted positive.
func Curve(labels, scores []float64) ([]Point, error) {
	c, err := Validate(labels, scores)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmpFloat(scores[b], scores[a])
	})

	points := []Point{{Threshold: scores[idx[0]] + 1}}
	var tp, fp int
	for i, k := range idx {
		if labels[k] == 1 {
			tp++
		} else {
			fp++
		}
		// emit once all samples sharing this score are counted
		if i+1 < len(idx) && scores[idx[i+1]] == scores[k] {
			continue
		}
		points = append(points, Point{
			Threshold: scores[k],
			FPR:       float64(fp) / float64(c.Negatives),
			TPR:       float64(tp) / float64(c.Positives),
		})
	}

	return points, nil
}

// Area integrates the curve with the trapezoid rule.
func Area(points []Point) float64 {
	var area float64
	for i := 1; i < len(points); i++ {
		dx := points[i].FPR - points[i-1].FPR
		area += dx * (points[i].TPR + points[i-1].TPR) / 2
	}
	return area
}
