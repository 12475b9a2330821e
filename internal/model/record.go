package model

const (
	NumberUnspecified = "No especificado"
	DateUnspecified   = "No especificada"
)

const (
	ContactPhone = "telefono"
	ContactEmail = "email"
)

// ExtractedRecord is the structured view of one regulatory text. It is rebuilt
// from scratch whenever the raw text is processed.
type ExtractedRecord struct {
	Title        string        `json:"titulo"`
	Number       string        `json:"numero"`
	Date         string        `json:"fecha"`
	Articles     []Article     `json:"articulos"`
	Chapters     []Chapter     `json:"capitulos"`
	Dispositions []Disposition `json:"disposiciones"`
	Application  []string      `json:"aplicacion"`
	Sanctions    []string      `json:"sanciones"`
	Contacts     []Contact     `json:"contactos"`
	Keywords     []string      `json:"palabras_clave"`
	FAQs         []FAQ         `json:"preguntas_frecuentes"`
}

type Article struct {
	Number  string `json:"numero"`
	Content string `json:"contenido"`
}

type Chapter struct {
	Number  string `json:"numero"`
	Content string `json:"contenido"`
}

type Disposition struct {
	Kind    string `json:"tipo"`
	Content string `json:"contenido"`
}

type Contact struct {
	Kind  string `json:"tipo"`
	Value string `json:"valor"`
}

type FAQ struct {
	Question string `json:"pregunta"`
	Answer   string `json:"respuesta"`
}

// HasNumber reports whether a document number was found.
func (r ExtractedRecord) HasNumber() bool {
	return r.Number != "" && r.Number != NumberUnspecified
}

// HasDate reports whether a date was found.
func (r ExtractedRecord) HasDate() bool {
	return r.Date != "" && r.Date != DateUnspecified
}
