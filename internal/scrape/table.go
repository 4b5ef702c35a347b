package scrape

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// Cell is one table value: either a plain string or a list of strings.
// List cells survive a round trip through the CSV encoding.
type Cell struct {
	text   string
	list   []string
	isList bool
}

// StringCell wraps a plain string value.
func StringCell(s string) Cell { return Cell{text: s} }

// ListCell wraps a list value.
func ListCell(values []string) Cell {
	if values == nil {
		values = []string{}
	}
	return Cell{list: values, isList: true}
}

// Text returns the string value and whether the cell holds one.
func (c Cell) Text() (string, bool) { return c.text, !c.isList }

// List returns the list value and whether the cell holds one.
func (c Cell) List() ([]string, bool) { return c.list, c.isList }

// Equal compares two cells by kind and content.
func (c Cell) Equal(other Cell) bool {
	if c.isList != other.isList {
		return false
	}
	if !c.isList {
		return c.text == other.text
	}
	if len(c.list) != len(other.list) {
		return false
	}
	for i := range c.list {
		if c.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// Table is an ordered, append-only result set. It has no primary key;
// ordering is the only identity its consumers rely on.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Append adds one row. The row length must match the column count.
func (t *Table) Append(row []Cell) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Equal compares two tables row-for-row, ignoring nothing but capacity.
func (t Table) Equal(other Table) bool {
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(other.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// EncodeCSV renders the table as CSV with a header row. List cells are
// written as JSON arrays so they can be decoded back into sequences.
func (t Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, cell := range row {
			if list, ok := cell.List(); ok {
				encoded, err := json.Marshal(list)
				if err != nil {
					return nil, fmt.Errorf("encode list cell: %w", err)
				}
				record[j] = string(encoded)
				continue
			}
			record[j], _ = cell.Text()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV reverses EncodeCSV. Cells that look like JSON string arrays
// decode back into list cells; everything else stays a string.
func DecodeCSV(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("csv has no header row")
	}
	t := Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make([]Cell, len(record))
		for j, field := range record {
			row[j] = decodeCell(field)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decodeCell(field string) Cell {
	if strings.HasPrefix(field, "[") {
		var list []string
		if err := json.Unmarshal([]byte(field), &list); err == nil {
			return ListCell(list)
		}
	}
	return StringCell(field)
}

// PutTable encodes a table and writes it to the blob store. Best effort:
// failure is reported as false, never as a fault.
func PutTable(ctx context.Context, store BlobStore, key string, t Table) bool {
	data, err := t.EncodeCSV()
	if err != nil {
		return false
	}
	return store.Put(ctx, key, data)
}

// GetTable reads a table back from the blob store, reversing the
// structured-value encoding applied on put.
func GetTable(ctx context.Context, store BlobStore, key string) (Table, bool) {
	data, ok := store.Get(ctx, key)
	if !ok {
		return Table{}, false
	}
	t, err := DecodeCSV(data)
	if err != nil {
		return Table{}, false
	}
	return t, true
}
