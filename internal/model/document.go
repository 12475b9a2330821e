package model

import "time"

// Category groups stored documents. The string value is the key used in the
// persisted knowledge file.
type Category string

const (
	CategoryLaw         Category = "leyes"
	CategoryRegulation  Category = "reglamentos"
	CategoryResolution  Category = "resoluciones"
	CategoryCircular    Category = "circulares"
	CategoryManual      Category = "manuales"
	CategoryInstruction Category = "instrucciones"
	CategoryOther       Category = "otros"
)

// Categories is the fixed iteration order of the knowledge store.
var Categories = []Category{
	CategoryLaw,
	CategoryRegulation,
	CategoryResolution,
	CategoryCircular,
	CategoryManual,
	CategoryInstruction,
	CategoryOther,
}

// ParseCategory accepts a persisted category key.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

const (
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatPDF      = "pdf"
)

type RawDocument struct {
	Title      string    `json:"-"`
	SourcePath string    `json:"fuente"`
	Category   Category  `json:"categoria"`
	Text       string    `json:"contenido"`
	IngestedAt time.Time `json:"fecha_carga"`
	Format     string    `json:"formato"`
}

// Entry is one stored document together with the record extracted from it.
type Entry struct {
	RawDocument
	Record ExtractedRecord `json:"informacion"`
}
