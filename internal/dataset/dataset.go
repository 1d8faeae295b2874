package dataset

// Dataset is the normalized output of every reader.
type Dataset struct {
	Frame           *Frame
	Units           map[string]string
	TimeStepMinutes int
	Quality         Quality
	SourceName      string
	Header          map[string]string
	Warnings        []string
	// Dialect names the reader that produced the dataset ("pvsyst", "solargis", "pvsyst_hourly").
	Dialect string
}

// Warn appends a warning. Warnings are never removed.
func (d *Dataset) Warn(msg string) {
	if msg == "" {
		return
	}
	d.Warnings = append(d.Warnings, msg)
}

// AddWarnings appends several warnings in order.
func (d *Dataset) AddWarnings(msgs ...string) {
	for _, m := range msgs {
		d.Warn(m)
	}
}

// Unit returns the unit recorded for a column, or "".
func (d *Dataset) Unit(column string) string {
	if d.Units == nil {
		return ""
	}
	return d.Units[column]
}
