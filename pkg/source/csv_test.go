package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte(
		"Date,Price,Qty,Customer\n"+
			"2024-03-01,10.50,2,17850\n"+
			"2024-03-02,,1,\n"))

	src := NewCSVSource(path, zap.NewNop())
	defer src.Close()

	table, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Price", "Qty", "Customer"}, table.Columns)
	require.Len(t, table.Records, 2)

	assert.Equal(t, "10.50", table.Records[0]["Price"])
	assert.Equal(t, "17850", table.Records[0]["Customer"])

	// Empty cells load as null, not empty string.
	assert.Nil(t, table.Records[1]["Price"])
	assert.Nil(t, table.Records[1]["Customer"])
}

func TestCSVSourceLatinOneFallback(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 and an invalid byte sequence in UTF-8.
	content := append([]byte("Product,Price,Qty\ncaf"), 0xE9)
	content = append(content, []byte(",5,1\n")...)
	path := writeFile(t, "latin1.csv", content)

	src := NewCSVSource(path, zap.NewNop())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "café", table.Records[0]["Product"])
}

func TestCSVSourceUnsupportedEncoding(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte("A,B\n1,2\n"))

	src := NewCSVSource(path, zap.NewNop()).WithEncodings([]string{"utf-16"})

	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())

	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVSourceEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", nil)

	src := NewCSVSource(path, zap.NewNop())

	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVSourceName(t *testing.T) {
	src := NewCSVSource("/data/uploads/sales.csv", zap.NewNop())
	assert.Equal(t, "csv:sales.csv", src.Name())
}

func TestCSVSourceCancelledContext(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte("A\n1\n"))
	src := NewCSVSource(path, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
