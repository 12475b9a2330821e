package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jce-assistant/internal/model"
)

func TestFormatAnswer(t *testing.T) {
	long := strings.Repeat("a", 150) + "."
	item := Item{
		Category: model.CategoryResolution,
		Title:    "Resolución 7",
		Entry: model.Entry{Record: model.ExtractedRecord{
			Title:  "Resolución 7",
			Number: "7",
			Date:   "01/01/2020",
			Articles: []model.Article{
				{Number: "1", Content: "Uno."},
				{Number: "2", Content: long},
				{Number: "3", Content: "Tres."},
				{Number: "4", Content: "Cuatro."},
			},
			Dispositions: []model.Disposition{
				{Kind: "Primera", Content: "P."},
				{Kind: "Segunda", Content: "S."},
				{Kind: "Tercera", Content: "T."},
			},
			Application: []string{"vigencia inmediata."},
		}},
	}

	got := FormatAnswer(item)

	assert.True(t, strings.HasPrefix(got, "📋 **Resolución 7**\n\n"))
	assert.Contains(t, got, "**Número:** 7\n")
	assert.Contains(t, got, "**Fecha:** 01/01/2020\n")
	assert.Contains(t, got, "**Categoría:** Resoluciones\n")
	assert.Contains(t, got, "• Artículo 1: Uno.\n")
	assert.Contains(t, got, "• Artículo 2: "+strings.Repeat("a", 100)+"...\n")
	assert.Contains(t, got, "• Artículo 3: Tres.\n")
	assert.NotContains(t, got, "Artículo 4")
	assert.Contains(t, got, "• Segunda: S.\n")
	assert.NotContains(t, got, "Tercera")
	assert.Contains(t, got, "**Aplicación:**\n• vigencia inmediata.\n")
	assert.True(t, strings.HasSuffix(got, AttributionFooter))
}

func TestFormatAnswer_OmitsSentinels(t *testing.T) {
	item := Item{
		Category: model.CategoryOther,
		Title:    "Notas",
		Entry: model.Entry{Record: model.ExtractedRecord{
			Number: model.NumberUnspecified,
			Date:   model.DateUnspecified,
		}},
	}

	got := FormatAnswer(item)

	assert.Contains(t, got, "📋 **Notas**")
	assert.NotContains(t, got, "Número")
	assert.NotContains(t, got, "Fecha")
	assert.NotContains(t, got, "Artículos")
}

func TestSummary(t *testing.T) {
	items := []Item{
		{Category: model.CategoryLaw, Title: "Ley 659", Entry: model.Entry{Record: model.ExtractedRecord{Number: "659", Date: model.DateUnspecified}}},
		{Category: model.CategoryResolution, Title: "Res 1", Entry: model.Entry{}},
	}

	got := Summary(items)

	assert.Contains(t, got, "**LEYES:**\n• Ley 659 (No. 659, No especificada)\n")
	assert.Contains(t, got, "**RESOLUCIONES:**\n• Res 1 (No. N/A, N/A)\n")
	assert.Contains(t, got, "**OTROS:**\n")
}
