package table

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("emp_id", "name", "score", "active", "updated_time")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, tbl.Append(int64(1), "ada", 9.5, true, ts))
	require.NoError(t, tbl.Append(int64(2), nil, 7.25, false, ts.Add(24*time.Hour)))
	require.NoError(t, tbl.Append(int64(3), "linus", nil, nil, nil))
	return tbl
}

func TestTable_ColumnError(t *testing.T) {
	tbl := sampleTable(t)

	_, err := tbl.Column("missing")
	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "missing", colErr.Column)
	assert.Equal(t, `column "missing" not found`, err.Error())

	_, err = tbl.Value(0, "missing")
	assert.ErrorAs(t, err, &colErr)
}

func TestTable_AppendArity(t *testing.T) {
	tbl := New("a", "b")
	assert.Error(t, tbl.Append(1))
	assert.NoError(t, tbl.Append(1, 2))
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_FilterKeepsColumns(t *testing.T) {
	tbl := sampleTable(t)
	out := tbl.Filter(func(_ int, row []any) bool { return row[0].(int64) > 1 })

	assert.Equal(t, tbl.Columns(), out.Columns())
	require.Equal(t, 2, out.Len())
	v, err := out.Value(0, "emp_id")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestTable_WithColumns(t *testing.T) {
	tbl := New("x")
	require.NoError(t, tbl.Append(2))

	out, err := tbl.WithColumns([]string{"double"}, func(row []any) ([]any, error) {
		return []any{row[0].(int) * 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "double"}, out.Columns())
	assert.Equal(t, []any{2, 4}, out.Row(0))
	assert.Equal(t, []string{"x"}, tbl.Columns(), "source table must not change")

	_, err = tbl.WithColumns([]string{"x"}, func(row []any) ([]any, error) { return []any{1}, nil })
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "emp_id,name,score,active,updated_time", lines[0])
	assert.Equal(t, "1,ada,9.5,true,2024-03-01T12:30:00Z", lines[1])
	assert.Equal(t, "3,linus,,,", lines[3])
}

func TestReadCSV(t *testing.T) {
	in := "category,count\nA,1\nB,\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"category", "count"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{"A", "1"}, tbl.Row(0))
	assert.Equal(t, []any{"B", nil}, tbl.Row(1))
}

func TestParquetRoundTrip(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, tbl))

	got, err := ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, tbl.Columns(), got.Columns())
	require.Equal(t, tbl.Len(), got.Len())
	assert.Equal(t, int64(1), got.Row(0)[0])
	assert.Equal(t, "ada", got.Row(0)[1])
	assert.Equal(t, 9.5, got.Row(0)[2])
	assert.Equal(t, true, got.Row(0)[3])
	assert.True(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC).Equal(got.Row(0)[4].(time.Time)))
	assert.Nil(t, got.Row(1)[1])
	assert.Nil(t, got.Row(2)[4])
}

func TestParquetEmptyTableKeepsColumns(t *testing.T) {
	tbl := New("a", "b")

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, tbl))

	got, err := ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Columns())
	assert.Zero(t, got.Len())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Parquet")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable(t)

	for _, f := range []Format{FormatCSV, FormatParquet} {
		t.Run(string(f), func(t *testing.T) {
			name, err := WriteFile(filepath.Join(dir, "out", "profiles"), f, tbl)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "out", "profiles."+string(f)), name)

			got, err := ReadFile(context.Background(), name)
			require.NoError(t, err)
			assert.Equal(t, tbl.Columns(), got.Columns())
			assert.Equal(t, tbl.Len(), got.Len())
		})
	}
}

func TestWriteFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteFile(filepath.Join(dir, "profiles"), Format("xml"), New("a"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, statErr := os.Stat(filepath.Join(dir, "profiles.xml"))
	assert.True(t, os.IsNotExist(statErr))
}
