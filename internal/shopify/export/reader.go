package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// RawRow is one parsed row with values addressable by column name. Values
// pass through untouched; interpretation happens during aggregation.
type RawRow struct {
	// Line is the 1-based source line, kept for diagnostics.
	Line   int
	fields map[string]string
}

func (r RawRow) Get(column string) string {
	return r.fields[column]
}

// Export is one fully read tabular file.
type Export struct {
	Columns []string
	Rows    []RawRow
}

// Read consumes the whole input. Malformed structure (unterminated quotes,
// column-count mismatch) fails the entire read; downstream grouping cannot
// recover from partially parsed rows.
func Read(r io.Reader) (*Export, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("export is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	out := &Export{Columns: header}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		fields := make(map[string]string, len(header))
		for i, column := range header {
			fields[column] = record[i]
		}
		out.Rows = append(out.Rows, RawRow{Line: line, fields: fields})
	}
}

func ReadFile(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	export, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return export, nil
}
