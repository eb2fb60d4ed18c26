package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	store := Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())

	require.NotZero(t, store.Len())
	_, ok := store.Get("mug-001")
	assert.True(t, ok, "default catalog should contain the mug")
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := Load(path, testLogger())
	require.NotZero(t, store.Len())
	_, ok := store.Get("tee-001")
	assert.True(t, ok)
}

func TestLoad_ReadsBareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `[{"id":"candle-001","name":"Soy Candle","price":450,"currency":"INR","category":"decor"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	store := Load(path, testLogger())
	require.Equal(t, 1, store.Len())

	p, ok := store.Get("candle-001")
	require.True(t, ok)
	assert.Equal(t, int64(450), p.Price)
	assert.Equal(t, "decor", p.Category)
}

func TestLoad_ReadsWrappedList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `{"products":[{"id":"candle-001","name":"Soy Candle","price":450,"currency":"INR","category":"decor"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	store := Load(path, testLogger())
	assert.Equal(t, 1, store.Len())
}

func TestLoad_NegativePriceRejectedAsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `[{"id":"bad-001","name":"Broken","price":-5,"currency":"INR","category":"x"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	store := Load(path, testLogger())
	_, ok := store.Get("bad-001")
	assert.False(t, ok, "malformed catalog should be replaced by defaults")
	_, ok = store.Get("mug-001")
	assert.True(t, ok)
}

func TestNew_DropsDuplicateAndEmptyIDs(t *testing.T) {
	store := New([]Product{
		{ID: "a", Name: "first", Price: 10},
		{ID: "", Name: "no id", Price: 20},
		{ID: "a", Name: "dup", Price: 30},
		{ID: "b", Name: "second", Price: 40},
	})

	require.Equal(t, 2, store.Len())
	p, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", p.Name, "first occurrence of an id wins")
}

func TestProducts_ReturnsCopy(t *testing.T) {
	store := New([]Product{{ID: "a", Name: "first", Price: 10}})

	got := store.Products()
	got[0].Name = "mutated"

	again := store.Products()
	assert.Equal(t, "first", again[0].Name)
}

func TestProduct_HasSize(t *testing.T) {
	p := Product{ID: "tee", Sizes: []string{"S", "M", "L"}}

	assert.True(t, p.HasSize(""))
	assert.True(t, p.HasSize("M"))
	assert.True(t, p.HasSize("m"))
	assert.False(t, p.HasSize("XXL"))

	sizeless := Product{ID: "mug"}
	assert.True(t, sizeless.HasSize(""))
	assert.False(t, sizeless.HasSize("M"))
}

func TestProduct_CanonicalSize(t *testing.T) {
	p := Product{ID: "tee", Sizes: []string{"S", "M", "L"}}

	assert.Equal(t, "M", p.CanonicalSize("m"))
	assert.Equal(t, "M", p.CanonicalSize(" M "))
	assert.Equal(t, "", p.CanonicalSize(""))
	assert.Equal(t, "", p.CanonicalSize("XXL"))
}
