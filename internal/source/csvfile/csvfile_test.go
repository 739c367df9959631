package csvfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsync/internal/source/csvfile"
	pkgerrors "github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/mapping"
)

func TestRead(t *testing.T) {
	spec := mapping.KeySpec{"Name", "AddressA"}

	t.Run("preserves row order and cells", func(t *testing.T) {
		input := "Name,Group,AddressA\nWidget,\"A, B\",Tokyo\nGadget,,Osaka\n"
		records, err := csvfile.Read(strings.NewReader(input), "test.csv", spec)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0].Row)
		assert.Equal(t, "Widget::Tokyo", records[0].Key)
		assert.Equal(t, "A, B", records[0].Values["Group"])
		assert.Equal(t, 2, records[1].Row)
		assert.Equal(t, "Gadget::Osaka", records[1].Key)
		assert.Equal(t, "", records[1].Values["Group"])
	})

	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		input := "\xef\xbb\xbfName,AddressA\nWidget,Tokyo\n"
		records, err := csvfile.Read(strings.NewReader(input), "test.csv", spec)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Widget", records[0].Values["Name"], "BOM must not corrupt the first header")
	})

	t.Run("duplicate key fails fast with row number", func(t *testing.T) {
		input := "Name,AddressA\nWidget,Tokyo\nGadget,Osaka\nWidget,Tokyo\n"
		_, err := csvfile.Read(strings.NewReader(input), "test.csv", spec)
		require.Error(t, err)

		var dup *pkgerrors.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, pkgerrors.SideLocal, dup.Side)
		assert.Equal(t, "Widget::Tokyo", dup.Key)
		assert.Equal(t, 3, dup.Row)
	})

	t.Run("missing key column", func(t *testing.T) {
		input := "Name,Group\nWidget,A\n"
		_, err := csvfile.Read(strings.NewReader(input), "test.csv", spec)
		require.Error(t, err)

		var missing *pkgerrors.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "AddressA", missing.Column)
	})

	t.Run("short rows pad with empty cells", func(t *testing.T) {
		input := "Name,AddressA,Group\nWidget,Tokyo\n"
		records, err := csvfile.Read(strings.NewReader(input), "test.csv", spec)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "", records[0].Values["Group"])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := csvfile.Read(strings.NewReader(""), "test.csv", spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "header")
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\nWidget\nGadget\n"), 0o644))

	records, err := csvfile.Load(path, mapping.KeySpec{"Name"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = csvfile.Load(filepath.Join(dir, "missing.csv"), mapping.KeySpec{"Name"})
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := csvfile.Write(&buf, []string{"Name", "Group"}, []map[string]string{
		{"Name": "Widget", "Group": "A,B"},
		{"Name": "Gadget"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name,Group\nWidget,\"A,B\"\nGadget,\n", buf.String())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []map[string]string{
		{"Name": "Widget", "Group": "A, B"},
		{"Name": "Gadget", "Group": ""},
	}
	require.NoError(t, csvfile.Save(path, []string{"Name", "Group"}, records))

	loaded, err := csvfile.Load(path, mapping.KeySpec{"Name"})
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "A, B", loaded[0].Values["Group"])
	assert.Equal(t, "Gadget", loaded[1].Values["Name"])
}
