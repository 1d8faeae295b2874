package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTMY is returned when no TMY dialect can read a file.
	ErrUnsupportedTMY = errors.New("ingest: unsupported TMY file")
	// ErrYearHeader is returned when a PVsyst TMY table has no YEAR header row.
	ErrYearHeader = errors.New("ingest: could not find the TMY table header row starting with 'YEAR'")
	// ErrDateColumns is returned when a PVsyst TMY table lacks MONTH, DAY or HOUR.
	ErrDateColumns = errors.New("ingest: TMY table misses YEAR/MONTH/DAY/HOUR columns")
	// ErrNoTable is returned when a file holds only header lines.
	ErrNoTable = errors.New("ingest: no table found (file contains only header lines)")
	// ErrColumnsRow is returned when the columns header row cannot be located.
	ErrColumnsRow = errors.New("ingest: could not identify the columns header row")
	// ErrNoData is returned when a columns row is not followed by data.
	ErrNoData = errors.New("ingest: columns row found, but no data lines afterwards")
	// ErrDatetime is returned when datetime values cannot be parsed.
	ErrDatetime = errors.New("ingest: invalid datetime values")
	// ErrTimeColumns is returned when no datetime strategy applies.
	ErrTimeColumns = errors.New("ingest: could not build datetime (missing time columns)")
	// ErrHourlyTable is returned when the hourly results table header is absent.
	ErrHourlyTable = errors.New("ingest: hourly table not found")
	// ErrUnitsRow is returned when the hourly header is the last line.
	ErrUnitsRow = errors.New("ingest: missing units row after header line")
	// ErrMandatoryColumn is returned when E_Grid is absent.
	ErrMandatoryColumn = errors.New("ingest: missing mandatory column 'E_Grid'")
	// ErrNoTimestamps is returned when no date could be parsed.
	ErrNoTimestamps = errors.New("ingest: no valid timestamps could be parsed from the date column")
	// ErrNumericRows is returned when fewer than half the rows carry numbers.
	ErrNumericRows = errors.New("ingest: less than 50% of rows contain valid numeric values. Check decimal separator / file integrity")
)

// DialectError reports that every TMY dialect failed. Last holds the final cause.
type DialectError struct {
	Last error
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("Unable to read TMY file with supported readers (PVSyst, SolarGIS).\nLast error: %v", e.Last)
}

// Unwrap exposes ErrUnsupportedTMY and the last dialect failure.
func (e *DialectError) Unwrap() []error {
	return []error{ErrUnsupportedTMY, e.Last}
}
