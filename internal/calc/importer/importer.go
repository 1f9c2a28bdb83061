package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/batch"
	"SizeWise/internal/calc/friction"
)

// Columns of the segment sheet, in order. The first row is a header.
var Columns = []string{
	"id", "velocity", "diameter", "length", "material", "age", "surface",
	"method", "temperature", "altitude", "humidity",
}

const requiredColumns = 4

type RowError struct {
	Row int    `json:"row"` // 1-based, as shown in the spreadsheet
	Err string `json:"error"`
}

// ReadSegments reads duct segments from the first sheet of an xlsx
// workbook. Blank rows are skipped and rows that do not parse are
// reported in the returned RowErrors.
func ReadSegments(r io.Reader) ([]batch.Segment, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q has no segment rows", sheet)
	}

	var segments []batch.Segment
	var rowErrs []RowError
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		seg, err := parseRow(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err.Error()})
			continue
		}
		segments = append(segments, seg)
	}
	return segments, rowErrs, nil
}

func parseRow(row []string) (batch.Segment, error) {
	if len(row) < requiredColumns {
		return batch.Segment{}, fmt.Errorf("want at least %d columns, got %d", requiredColumns, len(row))
	}
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	in := friction.Input{
		Material:         cell(4),
		MaterialAge:      friction.MaterialAge(strings.ToLower(cell(5))),
		SurfaceCondition: friction.SurfaceCondition(strings.ToLower(cell(6))),
		Method:           friction.Method(strings.ToLower(cell(7))),
	}
	var err error
	if in.Velocity, err = toFloat("velocity", cell(1)); err != nil {
		return batch.Segment{}, err
	}
	if in.HydraulicDiameter, err = toFloat("diameter", cell(2)); err != nil {
		return batch.Segment{}, err
	}
	if in.Length, err = toFloat("length", cell(3)); err != nil {
		return batch.Segment{}, err
	}

	if cell(8) != "" || cell(9) != "" || cell(10) != "" {
		c := air.StandardConditions()
		for _, opt := range []struct {
			name string
			col  int
			dst  *float64
		}{
			{"temperature", 8, &c.Temperature},
			{"altitude", 9, &c.Altitude},
			{"humidity", 10, &c.Humidity},
		} {
			if cell(opt.col) == "" {
				continue
			}
			if *opt.dst, err = toFloat(opt.name, cell(opt.col)); err != nil {
				return batch.Segment{}, err
			}
		}
		in.Conditions = &c
	}
	return batch.Segment{ID: cell(0), Friction: in}, nil
}

func toFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
