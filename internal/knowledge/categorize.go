package knowledge

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"jce-assistant/internal/model"
)

type categoryRule struct {
	needles  []string
	category model.Category
}

// categoryRules are checked in order; the first rule with a matching needle wins.
var categoryRules = []categoryRule{
	{needles: []string{"ley"}, category: model.CategoryLaw},
	{needles: []string{"reglamento"}, category: model.CategoryRegulation},
	{needles: []string{"resolucion", "res."}, category: model.CategoryResolution},
	{needles: []string{"circular"}, category: model.CategoryCircular},
	{needles: []string{"manual"}, category: model.CategoryManual},
	{needles: []string{"instruccion"}, category: model.CategoryInstruction},
}

// Categorize picks the category of a document from its file name.
func Categorize(filename string) model.Category {
	name := foldAccents(strings.ToLower(filepath.Base(filename)))
	for _, r := range categoryRules {
		for _, needle := range r.needles {
			if strings.Contains(name, needle) {
				return r.category
			}
		}
	}
	return model.CategoryOther
}

// TitleFromFilename returns the base name without its extension.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
