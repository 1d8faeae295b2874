package ingest

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/dataset"
	"pvinsight/internal/timestep"
)

// DefaultDateFormat is the PVsyst hourly export date format.
const DefaultDateFormat = "%d/%m/%Y %H:%M"

const mandatoryColumn = "E_Grid"

var fallbackDateFormats = []string{
	"%d/%m/%y %H:%M",
	"%d/%m/%Y %H:%M",
	"%d/%m/%y %H:%M:%S",
	"%d/%m/%Y %H:%M:%S",
	"%d.%m.%y %H:%M",
	"%d.%m.%Y %H:%M",
	"%Y-%m-%d %H:%M",
	"%Y-%m-%d %H:%M:%S",
}

// day-first layouts tried per value when no format fits the column
var dayFirstLayouts = []string{
	"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/06 15:04", "2/1/2006",
	"2-1-2006 15:04:05", "2-1-2006 15:04", "2-1-2006",
	"2.1.2006 15:04", "2.1.2006",
	"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02",
	time.RFC3339,
}

var headerPrefixes = []struct {
	prefix string
	key    string
	field  int
}{
	{"Site géographique;", "Site_name", 3},
	{"Geographical Site;", "Site_name", 3},
	{"Données météo;", "Meteo_name", 3},
	{"Meteo data;", "Meteo_name", 3},
	{"Variante de simulation;", "Variant_name", 3},
	{"Simulation variant;", "Variant_name", 3},
}

// HourlyOptions configure the hourly results reader.
type HourlyOptions struct {
	SourceName string
	// DateFormat is a strftime-style format tried before the built-in list.
	DateFormat string
}

// ReadHourlyResults parses a PVsyst "Hourly Results" export.
func ReadHourlyResults(data []byte, opts HourlyOptions) (*dataset.Dataset, error) {
	lines := splitLines(decodeText(data))
	ds := &dataset.Dataset{
		SourceName: opts.SourceName,
		Header:     hourlyGeneralInfo(lines),
		Dialect:    DialectPVsystHourly,
	}
	if ds.SourceName == "" {
		ds.SourceName = "uploaded_hourly.csv"
	}

	headers, unitTokens, start, err := detectHourlyTable(lines)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(headers, mandatoryColumn) {
		return nil, ErrMandatoryColumn
	}
	for len(unitTokens) < len(headers) {
		unitTokens = append(unitTokens, "")
	}
	unitTokens = unitTokens[:len(headers)]

	var rows [][]string
	for _, raw := range lines[start:] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parts := strings.Split(raw, ";")
		if len(parts) < len(headers) {
			continue
		}
		rows = append(rows, parts[:len(headers)])
	}

	dateCells := make([]string, len(rows))
	for i, r := range rows {
		dateCells[i] = r[0]
	}
	formats := fallbackDateFormats
	if opts.DateFormat != "" {
		formats = append([]string{opts.DateFormat}, formats...)
	}
	times := parseDateColumn(dateCells, formats)

	keep := make([]int, 0, len(rows))
	var badDates []string
	for i, t := range times {
		if t.IsZero() {
			badDates = append(badDates, dateCells[i])
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == 0 {
		return nil, ErrNoTimestamps
	}

	kept := make([]time.Time, len(keep))
	for j, i := range keep {
		kept[j] = times[i]
	}
	f := dataset.NewFrame(kept)
	ds.Units = make(map[string]string)
	for c := 1; c < len(headers); c++ {
		name := headers[c]
		if name == "" || f.Has(name) {
			continue
		}
		vals := make([]float64, len(keep))
		for j, i := range keep {
			vals[j] = parseNumber(rows[i][c], true)
		}
		f.Set(name, vals)
		ds.Units[name] = unitTokens[c]
	}

	valid := 0
	for i := 0; i < f.Len(); i++ {
		for _, name := range f.Columns() {
			if !math.IsNaN(f.Column(name)[i]) {
				valid++
				break
			}
		}
	}
	if float64(valid)/float64(f.Len()) < 0.5 {
		return nil, fmt.Errorf("%w (%d of %d rows)", ErrNumericRows, valid, f.Len())
	}

	f.SortByTime()
	ds.Frame = f
	inferred, _ := timestep.Infer(f.Time)
	ds.TimeStepMinutes = timestep.Minutes(inferred)
	ds.Quality = dataset.CheckQuality(f, ds.TimeStepMinutes)
	ds.Quality.MissingTimestamps += len(badDates)
	if ds.Quality.Warning != "" {
		ds.Warn("[quality] " + ds.Quality.Warning)
	}
	if len(badDates) > 0 {
		ds.Warn(fmt.Sprintf("[datetime] %d row(s) dropped: unparsable date (examples: %s)", len(badDates), samples(badDates)))
	}
	return ds, nil
}

func detectHourlyTable(lines []string) ([]string, []string, int, error) {
	for i, raw := range lines {
		line := strings.ReplaceAll(strings.TrimLeft(raw, " \t"), "\ufeff", "")
		if !strings.HasPrefix(strings.ToLower(line), "date;") {
			continue
		}
		if i+1 >= len(lines) {
			return nil, nil, 0, ErrUnitsRow
		}
		unitsLine := strings.ReplaceAll(strings.TrimLeft(lines[i+1], " \t"), "\ufeff", "")
		return splitTrim(line, ";"), splitTrim(unitsLine, ";"), i + 2, nil
	}
	return nil, nil, 0, ErrHourlyTable
}

func hourlyGeneralInfo(lines []string) map[string]string {
	info := make(map[string]string)
	if len(lines) > 0 {
		info["PVSyst_version"] = strings.TrimSpace(lines[0])
	}
	for _, line := range lines {
		parts := strings.Split(line, ";")
		switch {
		case strings.HasPrefix(line, "Simulation date"):
			if len(parts) > 2 {
				info["Simulation_date"] = strings.TrimSpace(parts[2])
			}
		case strings.HasPrefix(line, "Projet;"), strings.HasPrefix(line, "Project;"):
			pf := strings.TrimSpace(parts[1])
			info["Project_file"] = pf
			code, _, _ := strings.Cut(pf, ".")
			info["Project_code"] = strings.TrimSpace(code)
		}
		for _, p := range headerPrefixes {
			if strings.HasPrefix(line, p.prefix) && len(parts) > p.field {
				info[p.key] = strings.TrimSpace(parts[p.field])
			}
		}
	}
	return info
}

// parseDateColumn picks the format that parses most cells. A format parsing
// at least 98% of the cells wins immediately.
func parseDateColumn(cells []string, formats []string) []time.Time {
	clean := make([]string, len(cells))
	for i, c := range cells {
		clean[i] = cleanCell(c)
	}
	var best []time.Time
	bestValid := 0
	for _, fmtStr := range formats {
		layout := strftimeLayout(fmtStr)
		parsed := make([]time.Time, len(clean))
		valid := 0
		for i, s := range clean {
			if t, err := time.Parse(layout, s); err == nil {
				parsed[i] = t
				valid++
			}
		}
		if valid > bestValid {
			best, bestValid = parsed, valid
		}
		if valid > 0 && float64(valid) >= 0.98*float64(len(clean)) {
			return parsed
		}
	}
	if bestValid > 0 {
		return best
	}
	out := make([]time.Time, len(clean))
	for i, s := range clean {
		for _, layout := range dayFirstLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				out[i] = t.UTC()
				break
			}
		}
	}
	return out
}

var strftimeReplacer = strings.NewReplacer(
	"%d", "2",
	"%m", "1",
	"%Y", "2006",
	"%y", "06",
	"%H", "15",
	"%M", "04",
	"%S", "05",
)

// strftimeLayout converts the strftime directives used by PVsyst exports
// into a Go time layout.
func strftimeLayout(f string) string {
	return strftimeReplacer.Replace(f)
}
