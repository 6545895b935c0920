package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/tradebook"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	p, err := cfg.PrecisionSettings()
	require.NoError(t, err)
	assert.Equal(t, tradebook.DefaultPrecision(), p)
	policy, err := cfg.OversellPolicy()
	require.NoError(t, err)
	assert.Equal(t, tradebook.OversellDrop, policy)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `book: ledger/mine.jsonl
oversell: report
precision:
  price: 4
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))
	t.Setenv("TRADEBOOK_UNDO_DEPTH", "3")
	t.Setenv("TRADEBOOK_PRECISION_PNL", "0")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ledger/mine.jsonl", cfg.Book)
	assert.Equal(t, filepath.Join(dir, "ledger", "mine.jsonl"), cfg.BookPath(dir))
	assert.Equal(t, cfg.BookPath(dir)+".undo.json", cfg.UndoPath(dir))
	assert.Equal(t, "report", cfg.Oversell)
	assert.Equal(t, 3, cfg.UndoDepth)
	assert.Equal(t, "debug", cfg.Log.Level)

	p, err := cfg.PrecisionSettings()
	require.NoError(t, err)
	assert.Equal(t, 4, p[tradebook.FieldPrice])
	assert.Equal(t, 0, p[tradebook.FieldPnL])
	assert.Equal(t, 8, p[tradebook.FieldQuantity])
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRADEBOOK_CURRENCY=EUR\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TRADEBOOK_CURRENCY") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	yaml := "storage: mongo\nprecision:\n  price: 12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
	assert.Contains(t, err.Error(), "price")
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Precision["quantity"] = 4
	cfg.Oversell = "report"
	require.NoError(t, Save(dir, cfg))

	back, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	cfg.UndoDepth = -1
	assert.Error(t, Save(dir, cfg))
}
