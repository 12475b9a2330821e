package knowledge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jce-assistant/internal/model"
)

func TestSearch_OrdersByOccurrences(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, store.Put(model.CategoryResolution, "A", newEntry("A", "Acta, acta y ACTA.")))
	require.NoError(t, store.Put(model.CategoryLaw, "B", newEntry("B", "Una sola acta.")))
	require.NoError(t, store.Put(model.CategoryLaw, "C", newEntry("C", "Nada relevante.")))

	matches := store.Search("acta")
	require.Len(t, matches, 2)
	assert.Equal(t, "A", matches[0].Title)
	assert.Equal(t, 3, matches[0].Relevance)
	assert.Equal(t, "B", matches[1].Title)
	assert.Equal(t, 1, matches[1].Relevance)
}

func TestSearch_TitleOnlyMatchHasZeroRelevance(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, store.Put(model.CategoryCircular, "Circular cedulación", newEntry("Circular cedulación", "Texto sin la palabra.")))

	matches := store.Search("CEDULACIÓN")
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Relevance)
	assert.Equal(t, model.CategoryCircular, matches[0].Category)
	assert.Equal(t, model.NumberUnspecified, matches[0].Number)
}

func TestSearch_TiesKeepStoreOrder(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, store.Put(model.CategoryOther, "x", newEntry("x", "divorcio")))
	require.NoError(t, store.Put(model.CategoryLaw, "y", newEntry("y", "divorcio")))
	require.NoError(t, store.Put(model.CategoryLaw, "a", newEntry("a", "divorcio")))

	matches := store.Search("divorcio")
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"a", "y", "x"}, []string{matches[0].Title, matches[1].Title, matches[2].Title})
}

func TestSearch_MatchesWholeQueryNotTokens(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, store.Put(model.CategoryLaw, "L", newEntry("L", "acta de matrimonio")))

	assert.Empty(t, store.Search("acta matrimonio"))
	assert.Len(t, store.Search("acta de"), 1)
}

func TestSearch_BlankQuery(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, store.Put(model.CategoryLaw, "L", newEntry("L", "texto")))

	assert.Nil(t, store.Search(""))
	assert.Nil(t, store.Search("   "))
}
