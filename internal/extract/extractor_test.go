package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jce-assistant/internal/model"
)

const sampleResolution = `JUNTA CENTRAL ELECTORAL
Resolución No. 12-2019 sobre actas del registro civil.
Dada en Santo Domingo, el 15 de marzo de 2019.

Capítulo 1. Disposiciones generales del registro civil.
Artículo 1. Toda acta de nacimiento debe inscribirse en la oficialía correspondiente.
Artículo 2. El plazo de declaración es de sesenta días.
Artículo 3. La sanción por declaración tardía será fijada por la JCE.
Disposición Transitoria. Las oficialías tendrán seis meses para adecuarse.
La presente entrará en vigencia a partir de su publicación.
Informaciones: (809) 537-0100 o info@jce.gob.do.
`

func TestExtract_Resolution(t *testing.T) {
	rec := Extract("Resolucion 12-2019", sampleResolution)

	assert.Equal(t, "Resolucion 12-2019", rec.Title)
	assert.Equal(t, "12", rec.Number)
	assert.Equal(t, "15 de marzo de 2019", rec.Date)

	require.Len(t, rec.Articles, 3)
	assert.Equal(t, model.Article{Number: "1", Content: "Toda acta de nacimiento debe inscribirse en la oficialía correspondiente."}, rec.Articles[0])
	assert.Equal(t, "2", rec.Articles[1].Number)

	require.Len(t, rec.Chapters, 1)
	assert.Equal(t, "1", rec.Chapters[0].Number)

	require.Len(t, rec.Dispositions, 1)
	assert.Equal(t, "Transitoria", rec.Dispositions[0].Kind)
	assert.Equal(t, "Las oficialías tendrán seis meses para adecuarse.", rec.Dispositions[0].Content)

	require.Len(t, rec.Application, 1)
	assert.Equal(t, "vigencia a partir de su publicación.", rec.Application[0])

	require.Len(t, rec.Sanctions, 1)
	assert.True(t, strings.HasPrefix(rec.Sanctions[0], "sanción por declaración"))

	assert.Equal(t, []model.Contact{
		{Kind: model.ContactPhone, Value: "(809) 537-0100"},
		{Kind: model.ContactEmail, Value: "info@jce.gob.do"},
	}, rec.Contacts)

	assert.Contains(t, rec.Keywords, "acta")
	assert.Contains(t, rec.Keywords, "registro civil")
	assert.Contains(t, rec.Keywords, "jce")
	assert.NotContains(t, rec.Keywords, "divorcio")
}

func TestExtract_EmptyTextYieldsSentinels(t *testing.T) {
	rec := Extract("vacio", "")

	assert.Equal(t, model.NumberUnspecified, rec.Number)
	assert.Equal(t, model.DateUnspecified, rec.Date)
	assert.NotNil(t, rec.Articles)
	assert.Empty(t, rec.Articles)
	assert.NotNil(t, rec.Chapters)
	assert.Empty(t, rec.Dispositions)
	assert.Empty(t, rec.Application)
	assert.Empty(t, rec.Sanctions)
	assert.Empty(t, rec.Contacts)
	assert.Empty(t, rec.Keywords)
	assert.Empty(t, rec.FAQs)
}

func TestExtract_NeverPanicsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"Artículo",
		"Artículo 5",
		"Artículo 5 sin punto final",
		"Resolución No.",
		"((((( ]]]] \\ $^",
		"\x00\xff\xfe invalid utf8",
		strings.Repeat("Disposición ", 500),
		"¿pregunta sin respuesta?",
		"R: respuesta sin pregunta",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Extract("t", in) }, "input %q", in)
	}
}

func TestExtract_NumberPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "resolution with No.", text: "Ver No. 7. Resolución No. 45", want: "45"},
		{name: "resolution without No.", text: "Resolución 88 de la JCE", want: "88"},
		{name: "bare No.", text: "Oficio no. 301", want: "301"},
		{name: "lowercase resolution", text: "resolución no 9", want: "9"},
		{name: "abbreviated", text: "Según Res. 14", want: "14"},
		{name: "absent", text: "Texto sin números de resolución", want: model.NumberUnspecified},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract("t", tc.text).Number)
		})
	}
}

func TestExtract_DatePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "slash beats words", text: "1 de enero de 2020 y 02/03/2021", want: "02/03/2021"},
		{name: "dash", text: "emitida el 5-6-2018", want: "5-6-2018"},
		{name: "words", text: "el 3 de septiembre de 2015", want: "3 de septiembre de 2015"},
		{name: "no calendar validation", text: "45/99/2024", want: "45/99/2024"},
		{name: "absent", text: "sin fecha", want: model.DateUnspecified},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract("t", tc.text).Date)
		})
	}
}

func TestExtract_ApplicationKeepsOverlaps(t *testing.T) {
	rec := Extract("t", "Este es el ámbito de aplicación de la norma.")

	// "aplicación" and "ámbito de aplicación" both match the same sentence.
	require.Len(t, rec.Application, 2)
	assert.Equal(t, "aplicación de la norma.", rec.Application[0])
	assert.Equal(t, "ámbito de aplicación de la norma.", rec.Application[1])
}

func TestExtract_DuplicateContactsRetained(t *testing.T) {
	rec := Extract("t", "Llame al (809) 537-0100. Repetimos: (809) 537-0100.")
	assert.Len(t, rec.Contacts, 2)
}

func TestExtract_FAQs(t *testing.T) {
	text := "¿Puedo renovar mi cédula antes de que expire?\nR: Sí, hasta 6 meses antes.\n¿Otra pregunta?\nsin respuesta"
	rec := Extract("t", text)

	require.Len(t, rec.FAQs, 1)
	assert.Equal(t, "¿Puedo renovar mi cédula antes de que expire?", rec.FAQs[0].Question)
	assert.Equal(t, "Sí, hasta 6 meses antes.", rec.FAQs[0].Answer)
}

func TestFirstMatch_Fallback(t *testing.T) {
	assert.Equal(t, "none", firstMatch("abc", numberRules, "none"))
}
