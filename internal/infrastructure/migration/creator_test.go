package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payment reference", "add_payment_reference"},
		{"Add-Payment-Reference", "add_payment_reference"},
		{"add__invoice__status", "add_invoice_status"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"!!! ok", "ok"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	files, err := CreateMigration(dir, "add payment reference", "Reference column on payments", now)
	require.NoError(t, err)
	require.Len(t, files, len(Dialects))

	for i, mf := range files {
		assert.Equal(t, "20250314103000", mf.Version)
		assert.Equal(t, "20250314103000_add_payment_reference", mf.BaseName)
		assert.Equal(t, filepath.Join(dir, Dialects[i], mf.BaseName+".up.sql"), mf.UpPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Reference column on payments")
		assert.Contains(t, string(up), "(up, "+Dialects[i]+")")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	}

	_, err = CreateMigration(dir, "add payment reference", "again", now)
	assert.Error(t, err, "existing files are not overwritten")

	_, err = CreateMigration(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("repository migrations", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join("..", "..", "..", "migrations", "postgres"))
		require.NoError(t, err)
		require.NotEmpty(t, names)
		assert.Equal(t, "000001_create_billing_tables", names[0])
	})
}

func TestSourceDir(t *testing.T) {
	assert.Equal(t, filepath.Join("migrations", "postgres"), SourceDir("migrations", ""))
	assert.Equal(t, filepath.Join("migrations", "sqlite"), SourceDir("migrations", "sqlite"))
}
