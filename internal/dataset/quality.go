package dataset

import (
	"fmt"
	"math"
	"time"
)

// Quality summarizes row counts and gaps for a dataset.
type Quality struct {
	Rows              int
	Missing           int
	MissingTimestamps int
	Start             time.Time
	End               time.Time
	ExpectedRows      *int
	Warning           string
}

// CheckQuality counts NaN values and zero timestamps, and compares the row
// count with what the span and step imply.
func CheckQuality(f *Frame, stepMinutes int) Quality {
	q := Quality{Rows: f.Len()}
	for _, name := range f.Columns() {
		for _, v := range f.Column(name) {
			if math.IsNaN(v) {
				q.Missing++
			}
		}
	}
	for _, t := range f.Time {
		if t.IsZero() {
			q.MissingTimestamps++
			continue
		}
		if q.Start.IsZero() || t.Before(q.Start) {
			q.Start = t
		}
		if q.End.IsZero() || t.After(q.End) {
			q.End = t
		}
	}
	if q.Start.IsZero() || stepMinutes <= 0 {
		return q
	}
	span := q.End.Sub(q.Start).Minutes()
	expected := int(span/float64(stepMinutes)) + 1
	q.ExpectedRows = &expected
	if expected != q.Rows {
		q.Warning = fmt.Sprintf("Row count mismatch: got %d, expected %d for step=%d min.", q.Rows, expected, stepMinutes)
	}
	return q
}
