package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single line of a whitespace-delimited input.
const maxLineBytes = 4 * 1024 * 1024

// LoadWhitespace reads a whitespace-delimited file whose first line is a header.
func LoadWhitespace(path string) (*Table, error) {
	return loadFile(path, ParseWhitespace)
}

// LoadTSV reads a tab-delimited file without a header row.
func LoadTSV(path string) (*Table, error) {
	return loadFile(path, ParseTSV)
}

// LoadCSV reads a comma-delimited file whose first record is a header.
func LoadCSV(path string) (*Table, error) {
	return loadFile(path, ParseCSV)
}

func loadFile(path string, parse func(io.Reader, string) (*Table, error)) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: input paths are supplied by the pipeline
	if err != nil {
		return nil, WrapFormatError(path, 0, "cannot open input", err)
	}
	defer func() { _ = f.Close() }()

	return parse(f, path)
}

// ParseWhitespace parses a header row followed by rows split on runs of
// whitespace. Blank lines are skipped.
func ParseWhitespace(r io.Reader, name string) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var t *Table
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if t == nil {
			t = New(name, fields...)
			continue
		}
		if len(fields) != t.Width() {
			return nil, NewFormatError(name, line,
				fmt.Sprintf("expected %d fields, saw %d", t.Width(), len(fields)))
		}
		t.Rows = append(t.Rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, WrapFormatError(name, line, "read failed", err)
	}
	if t == nil {
		return nil, NewFormatError(name, 0, "no header row")
	}
	return t, nil
}

// ParseTSV parses tab-separated records with no header. Columns are
// labelled positionally ("0", "1", ...) from the width of the first record.
// Shorter records are padded with empty cells; longer ones are rejected.
func ParseTSV(r io.Reader, name string) (*Table, error) {
	records, err := readRecords(r, name, '\t')
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewFormatError(name, 0, "no records")
	}

	t := New(name, positionalLabels(len(records[0]))...)
	for i, rec := range records {
		row, err := fitRow(rec, t.Width(), name, i+1)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ParseCSV parses comma-separated records with a header record.
func ParseCSV(r io.Reader, name string) (*Table, error) {
	records, err := readRecords(r, name, ',')
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewFormatError(name, 0, "no header row")
	}

	t := New(name, records[0]...)
	t.Rows = make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := fitRow(rec, t.Width(), name, i+2)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func readRecords(r io.Reader, name string, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, WrapFormatError(name, perr.Line, "malformed record", perr.Err)
		}
		return nil, WrapFormatError(name, 0, "read failed", err)
	}
	return records, nil
}

// fitRow pads rec to width or rejects it when it is wider.
func fitRow(rec []string, width int, name string, line int) ([]string, error) {
	switch {
	case len(rec) > width:
		return nil, NewFormatError(name, line,
			fmt.Sprintf("expected %d fields, saw %d", width, len(rec)))
	case len(rec) < width:
		row := make([]string, width)
		copy(row, rec)
		return row, nil
	default:
		return rec, nil
	}
}
