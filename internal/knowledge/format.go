package knowledge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"jce-assistant/internal/model"
)

const (
	maxAnswerArticles     = 3
	maxAnswerDispositions = 2
	maxAnswerApplication  = 2
	answerSnippetRunes    = 100

	AttributionFooter = "ℹ️ *Información basada en documentos oficiales de la JCE*"
)

var categoryLabels = map[model.Category]string{
	model.CategoryLaw:         "Leyes",
	model.CategoryRegulation:  "Reglamentos",
	model.CategoryResolution:  "Resoluciones",
	model.CategoryCircular:    "Circulares",
	model.CategoryManual:      "Manuales",
	model.CategoryInstruction: "Instrucciones",
	model.CategoryOther:       "Otros",
}

// CategoryLabel is the human readable name of a category.
func CategoryLabel(c model.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// FormatAnswer renders a stored entry as a chat reply.
func FormatAnswer(item Item) string {
	rec := item.Entry.Record
	title := rec.Title
	if title == "" {
		title = item.Title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **%s**\n\n", title)
	if rec.HasNumber() {
		fmt.Fprintf(&b, "**Número:** %s\n", rec.Number)
	}
	if rec.HasDate() {
		fmt.Fprintf(&b, "**Fecha:** %s\n", rec.Date)
	}
	fmt.Fprintf(&b, "**Categoría:** %s\n\n", CategoryLabel(item.Category))

	if len(rec.Articles) > 0 {
		b.WriteString("**Artículos principales:**\n")
		for _, a := range head(rec.Articles, maxAnswerArticles) {
			fmt.Fprintf(&b, "• Artículo %s: %s\n", a.Number, snippet(a.Content))
		}
		b.WriteString("\n")
	}
	if len(rec.Dispositions) > 0 {
		b.WriteString("**Disposiciones:**\n")
		for _, d := range head(rec.Dispositions, maxAnswerDispositions) {
			fmt.Fprintf(&b, "• %s: %s\n", d.Kind, snippet(d.Content))
		}
		b.WriteString("\n")
	}
	if len(rec.Application) > 0 {
		b.WriteString("**Aplicación:**\n")
		for _, a := range head(rec.Application, maxAnswerApplication) {
			fmt.Fprintf(&b, "• %s\n", snippet(a))
		}
		b.WriteString("\n")
	}

	b.WriteString(AttributionFooter)
	return b.String()
}

// Summary lists every stored document per category.
func Summary(items []Item) string {
	byCategory := make(map[model.Category][]Item)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var b strings.Builder
	b.WriteString("📚 **Documentos JCE Cargados**\n\n")
	for _, c := range model.Categories {
		fmt.Fprintf(&b, "**%s:**\n", strings.ToUpper(string(c)))
		for _, item := range byCategory[c] {
			rec := item.Entry.Record
			fmt.Fprintf(&b, "• %s (No. %s, %s)\n", item.Title, orNA(rec.Number), orNA(rec.Date))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= answerSnippetRunes {
		return s
	}
	return string([]rune(s)[:answerSnippetRunes]) + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
