// Package csvfile reads and writes the local tabular source: one
// header row naming the columns, one record per subsequent row, every
// cell a string.
package csvfile

import (
	"encoding/csv"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/mapping"
)

// Load reads all records from the CSV file at path, preserving row
// order. Each record's composite key is computed while reading, and
// the first repeated key fails immediately so the offending row number
// is reported; a duplicate identity means no write can be trusted.
// Input is decoded tolerantly of a UTF-8 byte-order mark, which
// spreadsheet exports commonly prepend.
func Load(path string, spec mapping.KeySpec) ([]mapping.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, path, spec)
}

// Read consumes CSV content from r. The path is used only for error
// reporting.
func Read(r io.Reader, path string, spec mapping.KeySpec) ([]mapping.Record, error) {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1 // row widths validated against the header below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WrapParse("csv", path, errors.New("empty file, header row required"))
	}
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}

	var records []mapping.Record
	seen := make(map[string]int)

	for row := 1; ; row++ {
		cells, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}

		values := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(cells) {
				values[column] = cells[i]
			} else {
				values[column] = ""
			}
		}

		key, err := mapping.Key(values, spec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			return nil, errors.NewDuplicateKeyError(errors.SideLocal, key, row)
		}
		seen[key] = row

		records = append(records, mapping.Record{Row: row, Key: key, Values: values})
	}
}
