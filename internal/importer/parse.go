package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotCSV is returned by CheckFilename for files without a .csv extension.
var ErrNotCSV = errors.New("file must have a .csv extension")

// Record maps canonical field keys to coerced values.
// Values are string for string and enum fields and []string for list fields.
type Record map[string]any

// String returns the string value stored under key, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// List returns the list value stored under key, or nil.
func (r Record) List(key string) []string {
	l, _ := r[key].([]string)
	return l
}

// RawTable is the header row and data rows of one upload after line and
// cell splitting. Headers are trimmed and lower-cased; cells are trimmed.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// RawRow is one data line. Line is the 1-based line number in the source text.
type RawRow struct {
	Line  int
	Cells []string
}

// SkipReason explains why a row was not imported.
type SkipReason struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of one Parse call.
type Result struct {
	Records []Record     `json:"records"`
	Skipped int          `json:"skipped"`
	Reasons []SkipReason `json:"reasons,omitempty"`
}

// Empty reports whether no row was accepted.
func (r Result) Empty() bool { return len(r.Records) == 0 }

// Options tunes ParseWithOptions. The zero value matches Parse.
type Options struct {
	// MaxRows caps the number of data rows mapped. Rows past the cap are
	// counted as skipped. Zero means no cap.
	MaxRows int

	// CollectReasons records a SkipReason for each skipped row.
	CollectReasons bool

	// MaxReasons bounds the number of reasons kept. Zero means no bound.
	MaxReasons int
}

// CheckFilename rejects any filename that does not end in ".csv",
// compared case-insensitively.
func CheckFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".csv") {
		return ErrNotCSV
	}
	return nil
}

// Split breaks raw text into a RawTable using plain "\n" and "," splitting.
// Quoted fields are not recognised: a comma inside a value starts a new cell.
// Blank lines are dropped. It returns false when fewer than two non-blank
// lines remain.
func Split(rawText string) (RawTable, bool) {
	lines := strings.Split(rawText, "\n")

	var table RawTable
	headerSeen := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCells(line)
		if !headerSeen {
			for j := range cells {
				cells[j] = strings.ToLower(cells[j])
			}
			table.Headers = cells
			headerSeen = true
			continue
		}
		table.Rows = append(table.Rows, RawRow{Line: i + 1, Cells: cells})
	}

	if len(table.Rows) == 0 {
		return RawTable{}, false
	}
	return table, true
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// Parse maps rawText onto schema. It never fails: malformed rows are
// counted in Result.Skipped and an upload with nothing usable yields an
// empty Result.
func Parse(rawText string, schema *Schema) Result {
	return ParseWithOptions(rawText, schema, Options{})
}

// ParseWithOptions is Parse with a row cap and optional skip reasons.
func ParseWithOptions(rawText string, schema *Schema, opts Options) Result {
	res := Result{Records: []Record{}}

	table, ok := Split(rawText)
	if !ok {
		return res
	}

	// Column position -> field index; -1 for columns the schema ignores.
	columns := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		columns[i] = -1
		if idx, found := schema.byAlias[h]; found {
			columns[i] = idx
		}
	}

	skip := func(line int, field, msg string) {
		res.Skipped++
		if !opts.CollectReasons {
			return
		}
		if opts.MaxReasons > 0 && len(res.Reasons) >= opts.MaxReasons {
			return
		}
		res.Reasons = append(res.Reasons, SkipReason{Line: line, Field: field, Message: msg})
	}

	rows := table.Rows
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		over := rows[opts.MaxRows:]
		rows = rows[:opts.MaxRows]
		res.Skipped += len(over)
		if opts.CollectReasons {
			res.Reasons = append(res.Reasons, SkipReason{
				Line:    over[0].Line,
				Message: fmt.Sprintf("row limit of %d exceeded; %d rows not imported", opts.MaxRows, len(over)),
			})
		}
	}

	for _, row := range rows {
		if len(row.Cells) < len(table.Headers) {
			skip(row.Line, "", fmt.Sprintf("row has %d columns, header has %d", len(row.Cells), len(table.Headers)))
			continue
		}

		rec := schema.Defaults()
		for i, idx := range columns {
			if idx < 0 {
				continue
			}
			f := schema.fields[idx]
			rec[f.Key] = coerce(f, row.Cells[i])
		}

		if missing, ok := firstMissing(schema, rec); ok {
			skip(row.Line, missing, missing+" is required")
			continue
		}

		res.Records = append(res.Records, rec)
	}

	return res
}

// coerce converts one cell according to f.
func coerce(f Field, cell string) any {
	switch f.Coerce {
	case CoerceEnum:
		v := strings.ToLower(cell)
		if contains(f.EnumValues, v) {
			return v
		}
		return f.Default
	case CoerceList:
		if cell == "" {
			return []string{}
		}
		parts := strings.Split(cell, f.Separator)
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	default:
		if cell == "" && f.DefaultOnEmpty {
			return f.Default
		}
		return cell
	}
}

func firstMissing(schema *Schema, rec Record) (string, bool) {
	for _, f := range schema.fields {
		if !f.Required {
			continue
		}
		switch v := rec[f.Key].(type) {
		case string:
			if v == "" {
				return f.Key, true
			}
		case []string:
			if len(v) == 0 {
				return f.Key, true
			}
		default:
			return f.Key, true
		}
	}
	return "", false
}
