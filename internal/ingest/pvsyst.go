package ingest

import (
	"fmt"
	"strings"
	"time"

	"pvinsight/internal/columns"
	"pvinsight/internal/dataset"
	"pvinsight/internal/timestep"
	"pvinsight/internal/units"
)

const yearHeaderScan = 50

// ReadPVsystTMY reads the PVsyst TMY dialect: '#' metadata lines, a
// "YEAR;MONTH;DAY;HOUR;..." header row, a units row, then data rows.
func ReadPVsystTMY(data []byte, opts TMYOptions) (*dataset.Dataset, error) {
	lines := splitLines(decodeText(data))

	var headerLines, body []string
	inHeader := true
	for _, line := range lines {
		if inHeader && strings.HasPrefix(line, "#") {
			headerLines = append(headerLines, line)
			continue
		}
		inHeader = false
		if strings.TrimSpace(line) != "" {
			body = append(body, line)
		}
	}
	header := pvsystHeaderInfo(headerLines)
	if len(body) == 0 {
		return nil, ErrYearHeader
	}

	sep := ";"
	if strings.Count(body[0], ",") > strings.Count(body[0], ";") {
		sep = ","
	}

	hdr := -1
	for i, line := range body {
		if i >= yearHeaderScan {
			break
		}
		s := strings.ToUpper(strings.TrimSpace(line))
		if strings.HasPrefix(s, "YEAR"+sep) || s == "YEAR" {
			hdr = i
			break
		}
	}
	if hdr < 0 {
		return nil, ErrYearHeader
	}

	rawCols := splitTrim(body[hdr], sep)
	var rawUnits []string
	if hdr+1 < len(body) {
		rawUnits = splitTrim(body[hdr+1], sep)
	}
	unitsByRaw := make(map[string]string)
	for j, c := range rawCols {
		if c == "" {
			continue
		}
		u := ""
		if j < len(rawUnits) {
			u = units.Normalize(rawUnits[j])
		}
		unitsByRaw[c] = u
	}

	index := make(map[string]int, len(rawCols))
	for j, c := range rawCols {
		if _, ok := index[c]; !ok && c != "" {
			index[c] = j
		}
	}
	dateIdx := make([]int, 4)
	for k, name := range []string{"YEAR", "MONTH", "DAY", "HOUR"} {
		j, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s not found", ErrDateColumns, name)
		}
		dateIdx[k] = j
	}

	// rows with a non-numeric YEAR (the units row among them) are dropped
	type row struct {
		key    [4]int
		valid  bool
		fields []string
	}
	var rows []row
	for _, line := range body[hdr+1:] {
		fields := splitTrim(line, sep)
		for len(fields) < len(rawCols) {
			fields = append(fields, "")
		}
		year, ok := parseInteger(fields[dateIdx[0]])
		if !ok {
			continue
		}
		r := row{fields: fields}
		r.key[0] = year
		r.valid = true
		for k := 1; k < 4; k++ {
			v, ok := parseInteger(fields[dateIdx[k]])
			if !ok {
				r.valid = false
			}
			r.key[k] = v
		}
		rows = append(rows, r)
	}

	times := make([]time.Time, len(rows))
	for i, r := range rows {
		if r.valid {
			times[i] = buildTime(r.key[0], r.key[1], r.key[2], r.key[3], 0)
		}
	}

	ds := newDataset(opts, DialectPVsyst, header)

	step, ok := timestep.FromHeader(header)
	if !ok {
		inferred, meta := timestep.Infer(times)
		step = timestep.Minutes(inferred)
		if meta.Defaulted {
			ds.Warn("[timestep] Could not detect timestep from header or datetime; assuming 60 min.")
			step = timestep.DefaultMinutes
		}
	}
	ds.TimeStepMinutes = step

	// Sub-hourly rows of one hour are spread by their position in the file.
	if step < 60 {
		ds.AddWarnings(assignMinuteOffsets(times, func(i int) [4]int { return rows[i].key }, step)...)
	}

	commaDecimal := sep == ";"
	f := dataset.NewFrame(times)
	rename := columns.DefaultResolver.Resolve(rawCols)
	unitsByCol := make(map[string]string)
	for j, c := range rawCols {
		canonical, ok := rename[c]
		if !ok || index[c] != j {
			continue
		}
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = parseNumber(r.fields[j], commaDecimal)
		}
		f.Set(canonical, vals)
		unitsByCol[canonical] = unitsByRaw[c]
	}
	f.SortByTime()

	if err := finishTMY(ds, f, unitsByCol, opts); err != nil {
		return nil, err
	}
	return ds, nil
}

// assignMinuteOffsets adds count*step minutes to rows sharing an hour key,
// counting in file order. It reports groups that are split or overfull.
func assignMinuteOffsets(times []time.Time, key func(i int) [4]int, step int) []string {
	var warnings []string
	seen := make(map[[4]int]int)
	splitGroups := 0
	overfull := 0
	perHour := 60 / step
	var prev [4]int
	for i := range times {
		k := key(i)
		n, known := seen[k]
		if known && i > 0 && k != prev {
			splitGroups++
		}
		seen[k] = n + 1
		if n == perHour {
			overfull++
		}
		prev = k
		if times[i].IsZero() {
			continue
		}
		times[i] = times[i].Add(time.Duration(n*step) * time.Minute)
	}
	if splitGroups > 0 {
		warnings = append(warnings, fmt.Sprintf("[timestep] %d sub-hourly row(s) are not contiguous with the rest of their hour; minute offsets follow file order.", splitGroups))
	}
	if overfull > 0 {
		warnings = append(warnings, fmt.Sprintf("[timestep] %d hour(s) hold more than %d rows for step=%d min; minute offsets overflow the hour.", overfull, perHour, step))
	}
	return warnings
}

// buildTime returns the zero time when the components are out of range.
func buildTime(year, month, day, hour, minute int) time.Time {
	if month < 1 || month > 12 || day < 1 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}
	}
	return t
}

func pvsystHeaderInfo(lines []string) map[string]string {
	info := make(map[string]string)
	for _, line := range lines {
		s := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if s == "" {
			continue
		}
		parts := splitTrim(s, ";")
		if len(parts) >= 2 && parts[0] != "" {
			info[parts[0]] = parts[1]
		}
	}
	return info
}
