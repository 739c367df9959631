package csvfile

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/agentstation/docsync/pkg/errors"
)

// filePermissions is the mode for created CSV files (rw-r--r--).
const filePermissions = 0o644

// Save writes records to the CSV file at path with the given column
// order, header row first. Cells missing from a record are written as
// empty strings.
func Save(path string, columns []string, records []map[string]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	if err := Write(f, columns, records); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

// Write emits CSV content to w, header row first.
func Write(w io.Writer, columns []string, records []map[string]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for _, record := range records {
		for i, column := range columns {
			row[i] = record[column]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
