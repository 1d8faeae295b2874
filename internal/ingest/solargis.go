package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"pvinsight/internal/columns"
	"pvinsight/internal/dataset"
	"pvinsight/internal/timestep"
	"pvinsight/internal/units"
)

// AssumedYear anchors day-of-year based timestamps.
const AssumedYear = 2001

var (
	reUnitBrackets = regexp.MustCompile(`\[([^\]]+)\]`)
	reUnitParens   = regexp.MustCompile(`\(([^)]+)\)`)
	unitKeywords   = []string{"wh", "kwh", "w", "kw", "m2", "m²", "deg", "c", "m/s", "msec", "m_sec", "m/sec", "%", "pa"}
	fallbackTime   = []string{"day", "doy", "time", "year", "month", "hour"}
)

type solargisTable struct {
	headerLines []string
	sep         string
	columns     string
	units       string
	hasUnits    bool
	data        []string
}

// ReadSolargisTMY reads the Solargis dialect. The table is located by
// content: a mostly non-numeric row naming at least one time component,
// optionally followed by a units row.
func ReadSolargisTMY(data []byte, opts TMYOptions) (*dataset.Dataset, error) {
	tbl, err := findSolargisTable(splitLines(decodeText(data)))
	if err != nil {
		return nil, err
	}
	ds := newDataset(opts, DialectSolargis, solargisHeaderInfo(tbl.headerLines))
	headerUnits := solargisHeaderUnits(tbl.headerLines)

	rawCols := splitTrim(tbl.columns, tbl.sep)
	var dups []string
	firstIdx := make(map[string]int)
	for j, c := range rawCols {
		if _, ok := firstIdx[c]; ok {
			dups = append(dups, c)
			continue
		}
		firstIdx[c] = j
	}
	if len(dups) > 0 {
		ds.Warn(fmt.Sprintf("[columns] Duplicate columns detected; keeping first occurrence: %v", dups))
	}

	// cleaned name -> column position, first occurrence only
	var cleaned []string
	cleanIdx := make(map[string]int)
	inline := make(map[string]string)
	rowUnits := make(map[string]string)
	var unitTokens []string
	if tbl.hasUnits {
		unitTokens = splitTrim(tbl.units, tbl.sep)
	}
	for j, c := range rawCols {
		if firstIdx[c] != j {
			continue
		}
		clean, u := columns.SplitInlineUnit(c)
		if _, ok := cleanIdx[clean]; ok {
			continue
		}
		cleanIdx[clean] = j
		cleaned = append(cleaned, clean)
		if u != "" {
			inline[clean] = units.Normalize(u)
		}
		if j < len(unitTokens) && unitTokens[j] != "" {
			rowUnits[clean] = units.Normalize(unitTokens[j])
		}
	}

	rename := columns.DefaultResolver.Resolve(cleaned)
	unitsByCol := make(map[string]string)
	headerCanon := make(map[string]string, len(headerUnits))
	for k, v := range headerUnits {
		headerCanon[columns.Canon(k)] = v
	}
	for _, c := range cleaned {
		canonical, ok := rename[c]
		if !ok {
			continue
		}
		u := lo.CoalesceOrEmpty(rowUnits[c], headerUnits[c], inline[c], headerCanon[columns.Canon(c)])
		unitsByCol[canonical] = u
	}

	cells := make([][]string, len(tbl.data))
	for i, line := range tbl.data {
		fields := splitTrim(line, tbl.sep)
		for len(fields) < len(rawCols) {
			fields = append(fields, "")
		}
		cells[i] = fields
	}
	column := func(name string) []string {
		j := cleanIdx[name]
		out := make([]string, len(cells))
		for i := range cells {
			out[i] = cells[i][j]
		}
		return out
	}

	times, warn, err := buildSolargisTimes(cleaned, column)
	if err != nil {
		return nil, err
	}
	if warn != "" {
		ds.Warn(warn)
	}

	f := dataset.NewFrame(times)
	for _, c := range cleaned {
		canonical, ok := rename[c]
		if !ok {
			continue
		}
		raw := column(c)
		vals := make([]float64, len(raw))
		for i, s := range raw {
			vals[i] = parseNumber(s, false)
		}
		f.Set(canonical, vals)
	}
	f.SortByTime()

	inferred, meta := timestep.Infer(f.Time)
	step := timestep.Minutes(inferred)
	if meta.Defaulted {
		step = timestep.DefaultMinutes
		ds.Warn("[timestep] Could not detect timestep from datetime; assuming 60 min (TMY60).")
	}
	ds.TimeStepMinutes = step

	f, unitsByCol, err = units.EnergyToPower(f, unitsByCol, opts.target(), step)
	if err != nil {
		return nil, err
	}
	if err := finishTMY(ds, f, unitsByCol, opts); err != nil {
		return nil, err
	}
	return ds, nil
}

func findSolargisTable(lines []string) (solargisTable, error) {
	var tbl solargisTable
	var body []string
	for _, l := range lines {
		s := strings.TrimSpace(l)
		if strings.HasPrefix(s, "#") {
			tbl.headerLines = append(tbl.headerLines, l)
			continue
		}
		if s != "" {
			body = append(body, l)
		}
	}
	if len(body) == 0 {
		return tbl, ErrNoTable
	}
	tbl.sep = guessSeparator(body)

	colIdx := -1
	for i, l := range body {
		if looksLikeColumnsRow(l, tbl.sep) {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		for i, l := range body {
			if !strings.Contains(l, tbl.sep) {
				continue
			}
			toks := lo.Map(strings.Split(l, tbl.sep), func(t string, _ int) string { return columns.Canon(t) })
			if len(lo.Intersect(toks, fallbackTime)) > 0 {
				colIdx = i
				break
			}
		}
	}
	if colIdx < 0 {
		return tbl, ErrColumnsRow
	}
	tbl.columns = strings.TrimSpace(body[colIdx])

	start := colIdx + 1
	if start < len(body) {
		cand := strings.TrimSpace(body[start])
		toks := splitTrim(cand, tbl.sep)
		if len(toks) == len(splitTrim(tbl.columns, tbl.sep)) && looksLikeUnitsRow(toks) {
			tbl.units = cand
			tbl.hasUnits = true
			start++
		}
	}
	tbl.data = body[start:]
	if len(tbl.data) == 0 {
		return tbl, ErrNoData
	}
	return tbl, nil
}

func guessSeparator(body []string) string {
	for _, l := range body {
		t := strings.TrimSpace(l)
		if strings.Count(t, ";") >= 2 {
			return ";"
		}
		if strings.Count(t, ",") >= 2 {
			return ","
		}
	}
	return ";"
}

func looksLikeColumnsRow(line, sep string) bool {
	toks := splitTrim(line, sep)
	if len(toks) < 3 {
		return false
	}
	nonNumeric := lo.CountBy(toks, func(t string) bool { return t != "" && !isNumberish(t) })
	if nonNumeric < max(2, int(0.6*float64(len(toks)))) {
		return false
	}
	return lo.SomeBy(toks, columns.IsTimeToken)
}

func looksLikeUnitsRow(toks []string) bool {
	if len(toks) == 0 {
		return false
	}
	empties, unitHits, valueHits := 0, 0, 0
	for _, t := range toks {
		x := strings.ToLower(strings.TrimSpace(t))
		switch {
		case x == "":
			empties++
		case isNumberish(x):
			valueHits++
		case lo.SomeBy(unitKeywords, func(k string) bool { return strings.Contains(x, k) }):
			unitHits++
		}
	}
	return empties >= max(1, len(toks)/3) && unitHits >= 2 && valueHits <= 1
}

func solargisHeaderInfo(lines []string) map[string]string {
	info := make(map[string]string)
	for _, raw := range lines {
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "#"))
		if s == "" {
			continue
		}
		for _, sep := range []string{":", ";"} {
			k, v, ok := strings.Cut(s, sep)
			if !ok {
				continue
			}
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k != "" && v != "" {
				info[k] = v
			}
			break
		}
	}
	return info
}

// solargisHeaderUnits reads lines like "#GHI - Global horizontal [Wh/m2]".
func solargisHeaderUnits(lines []string) map[string]string {
	out := make(map[string]string)
	for _, raw := range lines {
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "#"))
		if s == "" {
			continue
		}
		code, _, _ := strings.Cut(s, "-")
		code, _, _ = strings.Cut(strings.TrimSpace(code), " ")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		m := reUnitBrackets.FindStringSubmatch(s)
		if m == nil {
			m = reUnitParens.FindStringSubmatch(s)
		}
		if m == nil {
			continue
		}
		if u := strings.TrimSpace(m[1]); u != "" {
			out[code] = units.Normalize(u)
		}
	}
	return out
}
