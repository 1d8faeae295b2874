package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pvinsight/internal/columns"
)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02",
}

// parseDatetime parses an explicit datetime cell; offsets are converted to UTC.
func parseDatetime(s string) (time.Time, bool) {
	s = cleanCell(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// buildSolargisTimes reconstructs timestamps with the first applicable
// strategy: explicit datetime, Y/M/D/H(+min), day-of-year + clock time,
// day-of-year + hour(+min).
func buildSolargisTimes(cols []string, column func(string) []string) ([]time.Time, string, error) {
	find := func(kind string) string {
		c, _ := columns.FindTimeColumn(cols, kind)
		return c
	}

	if c := find(columns.TimeDatetime); c != "" {
		raw := column(c)
		out := make([]time.Time, len(raw))
		var bad []string
		for i, s := range raw {
			t, ok := parseDatetime(s)
			if !ok {
				bad = append(bad, s)
				continue
			}
			out[i] = t
		}
		if len(bad) > 0 {
			return nil, "", fmt.Errorf("%w: could not parse some datetime values (examples): %s", ErrDatetime, samples(bad))
		}
		return out, "", nil
	}

	cYear, cMonth, cDay := find(columns.TimeYear), find(columns.TimeMonth), find(columns.TimeDay)
	cDOY, cHour, cMin, cTime := find(columns.TimeDOY), find(columns.TimeHour), find(columns.TimeMinute), find(columns.TimeClock)

	if cYear != "" && cMonth != "" && cDay != "" && cHour != "" {
		return fromYMDH(column, cYear, cMonth, cDay, cHour, cMin)
	}

	if cDOY == "" && cDay != "" && cMonth == "" {
		cDOY = cDay
	}
	if cDOY != "" && cTime != "" {
		return fromDOYClock(column(cDOY), column(cTime))
	}
	if cDOY != "" && cHour != "" {
		return fromDOYHour(column, cDOY, cHour, cMin)
	}
	return nil, "", fmt.Errorf("%w. Found columns: [%s]", ErrTimeColumns, strings.Join(cols, ", "))
}

func fromYMDH(column func(string) []string, cYear, cMonth, cDay, cHour, cMin string) ([]time.Time, string, error) {
	names := []string{cYear, cMonth, cDay, cHour}
	if cMin != "" {
		names = append(names, cMin)
	}
	parts := make([][]string, len(names))
	for k, n := range names {
		parts[k] = column(n)
	}
	out := make([]time.Time, len(parts[0]))
	var bad []string
	for i := range out {
		v := make([]int, 5)
		ok := true
		for k := range names {
			n, good := parseInteger(parts[k][i])
			ok = ok && good
			v[k] = n
		}
		if ok {
			out[i] = buildTime(v[0], v[1], v[2], v[3], v[4])
		}
		if !ok || out[i].IsZero() {
			rec := make([]string, len(names))
			for k, n := range names {
				rec[k] = n + "=" + parts[k][i]
			}
			bad = append(bad, strings.Join(rec, " "))
		}
	}
	if len(bad) > 0 {
		return nil, "", fmt.Errorf("%w: could not build datetime from Y/M/D/H/M (examples): %s", ErrDatetime, samples(bad))
	}
	return out, "", nil
}

func fromDOYClock(doys, clocks []string) ([]time.Time, string, error) {
	base := time.Date(AssumedYear, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, len(doys))
	var bad []string
	missing := false
	for i, d := range doys {
		doy := parseNumber(d, false)
		if math.IsNaN(doy) || math.IsInf(doy, 0) {
			missing = true
			continue
		}
		h, m, ok := parseClock(clocks[i])
		if !ok {
			bad = append(bad, clocks[i])
			continue
		}
		out[i] = base.AddDate(0, 0, int(doy)-1).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	if len(bad) > 0 {
		return nil, "", fmt.Errorf("%w: could not parse some Time values (examples): %s", ErrDatetime, samples(bad))
	}
	if missing {
		return out, "[datetime] Some datetime values could not be built; rows kept as NaT.", nil
	}
	return out, "", nil
}

// parseClock accepts HH:MM, HH:MM:SS or fractional hours ("13.5").
func parseClock(s string) (int, int, bool) {
	s = cleanCell(s)
	if parts := strings.Split(s, ":"); len(parts) == 2 || len(parts) == 3 {
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return 0, 0, false
		}
		if len(parts) == 3 {
			sec, err := strconv.Atoi(parts[2])
			if err != nil || sec < 0 || sec > 59 {
				return 0, 0, false
			}
		}
		return h, m, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, false
	}
	h := int(v)
	return h, int(math.Round((v - float64(h)) * 60)), true
}

func fromDOYHour(column func(string) []string, cDOY, cHour, cMin string) ([]time.Time, string, error) {
	doys, hrs := column(cDOY), column(cHour)
	var mins []string
	if cMin != "" {
		mins = column(cMin)
	}
	base := time.Date(AssumedYear, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, len(doys))
	var bad []string
	for i := range doys {
		doy := parseNumber(doys[i], false)
		h := parseNumber(hrs[i], false)
		m := 0.0
		if mins != nil {
			m = parseNumber(mins[i], false)
		}
		if math.IsNaN(doy) || math.IsNaN(h) || math.IsNaN(m) {
			rec := fmt.Sprintf("%s=%s %s=%s", cDOY, doys[i], cHour, hrs[i])
			if mins != nil {
				rec += fmt.Sprintf(" %s=%s", cMin, mins[i])
			}
			bad = append(bad, rec)
			continue
		}
		offset := (doy-1)*24*float64(time.Hour) + h*float64(time.Hour) + m*float64(time.Minute)
		out[i] = base.Add(time.Duration(offset))
	}
	if len(bad) > 0 {
		return nil, "", fmt.Errorf("%w: could not build datetime from DOY/H/M (examples): %s", ErrDatetime, samples(bad))
	}
	return out, "", nil
}
