package interfaces

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"pvinsight/internal/dataset"
	"pvinsight/internal/energy"
	"pvinsight/internal/format"
)

const timeLayout = "2006-01-02 15:04"

func stamp(t time.Time) string {
	if t.IsZero() {
		return format.Missing
	}
	return t.Format(timeLayout)
}

func qualityRows(q dataset.Quality) [][2]string {
	missing := "none"
	if q.Missing > 0 || q.MissingTimestamps > 0 {
		missing = fmt.Sprintf("%d NaN, %d NaT", q.Missing, q.MissingTimestamps)
	}
	rows := [][2]string{
		{"Rows", format.Number(float64(q.Rows), 0)},
		{"Period", stamp(q.Start) + "  ->  " + stamp(q.End)},
		{"Missing values", missing},
	}
	if q.Warning != "" {
		rows = append(rows, [2]string{"Warning", q.Warning})
	}
	return rows
}

func energyRows(s energy.Summary, prefix string) [][2]string {
	var rows [][2]string
	for _, c := range []struct {
		name string
		v    *float64
	}{{"GHI", s.GHI}, {"DNI", s.DNI}, {"DHI", s.DHI}} {
		if c.v == nil {
			continue
		}
		rows = append(rows, [2]string{prefix + c.name, format.WithUnit(*c.v, s.Unit, 1)})
	}
	return rows
}

// monthlyMeans averages a column per calendar month, NaN skipped.
func monthlyMeans(f *dataset.Frame, col string) ([]string, []float64) {
	if !f.Has(col) {
		return nil, nil
	}
	values := f.Column(col)
	idx := lo.Filter(lo.Range(f.Len()), func(i int, _ int) bool {
		return !f.Time[i].IsZero() && !math.IsNaN(values[i])
	})
	byMonth := lo.GroupBy(idx, func(i int) time.Month { return f.Time[i].Month() })
	months := lo.Keys(byMonth)
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	labels := lo.Map(months, func(m time.Month, _ int) string { return m.String()[:3] })
	means := lo.Map(months, func(m time.Month, _ int) float64 {
		return stat.Mean(lo.Map(byMonth[m], func(i int, _ int) float64 { return values[i] }), nil)
	})
	return labels, means
}
