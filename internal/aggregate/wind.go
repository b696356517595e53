package aggregate

import (
	"fmt"
	"math"

	"climate-feed/internal/models"
)

// Layout of the standard wind frequency grid: one calm cell followed
// by 16 direction sectors of 4 speed classes each.
const (
	windSectors      = 16
	windSpeedClasses = 4
	windGridCells    = 1 + windSectors*windSpeedClasses

	// WindCalmLimit is the speed in m/s below which a day counts as
	// calm on the frequency grid.
	WindCalmLimit = 0.5
)

// Upper bounds of the first three speed classes; the fourth is open.
var windClassEdges = [windSpeedClasses - 1]float64{3, 6, 10}

// WindGridVector builds the one-hot daily frequency vector of a wind
// (speed, direction) observation on the standard 65-cell grid: one
// calm cell, then 16 direction sectors of 22.5 degrees (the first
// centered on north) with 4 speed classes each.
func WindGridVector(speed, direction float64) models.Vector {
	v := make(models.Vector, windGridCells)
	if speed < WindCalmLimit {
		v[0] = 1
		return v
	}
	// Directions arrive unchecked when the range table has no entry for
	// them, so normalize any real value into [0, 360) first.
	deg := math.Mod(math.Mod(direction+11.25, 360)+360, 360)
	sector := int(deg/22.5) % windSectors
	class := 0
	for class < windSpeedClasses-1 && speed > windClassEdges[class] {
		class++
	}
	v[1+sector*windSpeedClasses+class] = 1
	return v
}

// WindGustSummary reports the strongest gust of the period and the
// direction recorded with it.
type WindGustSummary struct {
	Flag      models.Flag
	Speed     *float64
	Direction *float64
}

func (s *WindGustSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".ff", s.Speed)
	setNum(f, family+".dd", s.Direction)
	return f
}

// WindGust aggregates daily (gust speed, gust direction) pairs. The
// reported direction is the one observed with the maximum speed; a day
// missing its direction still competes on speed.
func WindGust(records []models.DailyRecord, numExpected int, minCoverage float64) (*WindGustSummary, error) {
	var best *models.Pair
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		p, ok := r.PairValue()
		if !ok {
			return nil, &models.PreconditionError{
				Op:     "wind gust aggregation",
				Detail: fmt.Sprintf("expected pair daily value, got %T", r.Value),
			}
		}
		if p.First == nil {
			continue
		}
		if best == nil || *p.First > *best.First {
			pCopy := p
			best = &pCopy
		}
	}
	if best == nil {
		return nil, nil
	}
	summary := &WindGustSummary{
		Flag:  ComputeFlag(records, minCoverage, numExpected),
		Speed: ptr(round1(*best.First)),
	}
	if best.Second != nil {
		summary.Direction = ptr(round1(*best.Second))
	}
	return summary, nil
}

// WindMeanSummary reports the period mean wind speed.
type WindMeanSummary struct {
	Flag  models.Flag
	Speed *float64
}

func (s *WindMeanSummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	setNum(f, family+".ff", s.Speed)
	return f
}

// WindMean aggregates daily mean wind speed.
func WindMean(records []models.DailyRecord, numExpected int, minCoverage float64) (*WindMeanSummary, error) {
	values, _, err := scalarValues("wind mean aggregation", records)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &WindMeanSummary{
		Flag:  ComputeFlag(records, minCoverage, numExpected),
		Speed: ptr(round1(mean(values))),
	}, nil
}

// WindFrequencySummary carries the element-wise sum of the daily
// frequency vectors.
type WindFrequencySummary struct {
	Flag  models.Flag
	Cells []float64
}

// Fields names the cells of the standard 65-cell grid as one calm
// frequency plus sector/class frequencies; any other length falls back
// to indexed cell names.
func (s *WindFrequencySummary) Fields(family string) models.Fields {
	f := models.Fields{}
	setFlag(f, family, s.Flag)
	if len(s.Cells) == windGridCells {
		f[family+".frq_calme"] = s.Cells[0]
		for sector := 0; sector < windSectors; sector++ {
			for class := 0; class < windSpeedClasses; class++ {
				name := fmt.Sprintf("%s.frq_s%02dc%d", family, sector+1, class+1)
				f[name] = s.Cells[1+sector*windSpeedClasses+class]
			}
		}
		return f
	}
	for i, v := range s.Cells {
		f[fmt.Sprintf("%s.frq_%02d", family, i+1)] = v
	}
	return f
}

// WindFrequency sums the daily wind speed/direction frequency vectors
// of a period element-wise across contributing days. The vectors of
// invalid days never contribute. All contributing vectors must share
// one length.
func WindFrequency(records []models.DailyRecord, numExpected int, minCoverage float64) (*WindFrequencySummary, error) {
	var cells []float64
	for _, r := range records {
		if !r.Contributes() {
			continue
		}
		v, ok := r.VectorValue()
		if !ok {
			return nil, &models.PreconditionError{
				Op:     "wind frequency aggregation",
				Detail: fmt.Sprintf("expected vector daily value, got %T", r.Value),
			}
		}
		if cells == nil {
			cells = make([]float64, len(v))
		}
		if len(v) != len(cells) {
			return nil, &models.PreconditionError{
				Op:     "wind frequency aggregation",
				Detail: fmt.Sprintf("frequency vector length %d does not match %d", len(v), len(cells)),
			}
		}
		for i, c := range v {
			cells[i] += c
		}
	}
	if cells == nil {
		return nil, nil
	}
	return &WindFrequencySummary{
		Flag:  ComputeFlag(records, minCoverage, numExpected),
		Cells: cells,
	}, nil
}
