// Package extract turns raw regulatory text into an ExtractedRecord using
// ordered regular-expression rules. Missing fields resolve to sentinels.
package extract

import (
	"regexp"
	"strings"

	"jce-assistant/internal/model"
)

var numberRules = []rule[string]{
	{re: regexp.MustCompile(`(?i)Resolución\s+No\.?\s*(\d+)`), pick: group(1)},
	{re: regexp.MustCompile(`(?i)Resolución\s+(\d+)`), pick: group(1)},
	{re: regexp.MustCompile(`(?i)No\.?\s*(\d+)`), pick: group(1)},
	{re: regexp.MustCompile(`(?i)Res\.\s*(\d+)`), pick: group(1)},
}

var dateRules = []rule[string]{
	{re: regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`), pick: group(1)},
	{re: regexp.MustCompile(`(\d{1,2}-\d{1,2}-\d{4})`), pick: group(1)},
	{re: regexp.MustCompile(`(\d{1,2}\s+de\s+\p{L}+\s+de\s+\d{4})`), pick: group(1)},
}

var (
	articleRe     = regexp.MustCompile(`(?i)Artículo\s+(\d+)\.?\s*([^.]*\.)`)
	chapterRe     = regexp.MustCompile(`(?i)Capítulo\s+([\p{L}\d]+)\.?\s*([^.]*\.)`)
	dispositionRe = regexp.MustCompile(`(?i)Disposición\s+([\p{L}\d]+)\.?\s*([^.]*\.)`)
	sanctionRe    = regexp.MustCompile(`(?i)sanción[^.]*\.`)
	phoneRe       = regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`)
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// applicationTerms are searched in this order; a sentence holding several terms
// is reported once per term.
var applicationTerms = []string{
	"aplicación",
	"vigencia",
	"entrada en vigor",
	"alcance",
	"ámbito de aplicación",
}

var applicationRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(applicationTerms))
	for _, term := range applicationTerms {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)+`[^.]*\.`))
	}
	return out
}()

// Vocabulary is the civil-registry term list used for keyword tags.
var Vocabulary = []string{
	"acta", "nacimiento", "cedula", "identidad", "matrimonio",
	"divorcio", "naturalizacion", "apostilla", "registro civil",
	"junta central electoral", "jce", "documento", "tramite",
	"requisito", "costo", "tiempo", "oficina", "horario",
}

// Extract builds the record for raw. title is copied verbatim.
func Extract(title, raw string) model.ExtractedRecord {
	return model.ExtractedRecord{
		Title:        title,
		Number:       firstMatch(raw, numberRules, model.NumberUnspecified),
		Date:         firstMatch(raw, dateRules, model.DateUnspecified),
		Articles:     allMatches(raw, articleRe, toArticle),
		Chapters:     allMatches(raw, chapterRe, toChapter),
		Dispositions: allMatches(raw, dispositionRe, toDisposition),
		Application:  application(raw),
		Sanctions:    allMatches(raw, sanctionRe, group(0)),
		Contacts:     contacts(raw),
		Keywords:     keywords(raw),
		FAQs:         faqs(raw),
	}
}

func toArticle(groups []string) model.Article {
	return model.Article{Number: groups[1], Content: strings.TrimSpace(groups[2])}
}

func toChapter(groups []string) model.Chapter {
	return model.Chapter{Number: groups[1], Content: strings.TrimSpace(groups[2])}
}

func toDisposition(groups []string) model.Disposition {
	return model.Disposition{Kind: groups[1], Content: strings.TrimSpace(groups[2])}
}

func application(raw string) []string {
	out := make([]string, 0)
	for _, re := range applicationRes {
		out = append(out, re.FindAllString(raw, -1)...)
	}
	return out
}

func contacts(raw string) []model.Contact {
	out := make([]model.Contact, 0)
	for _, phone := range phoneRe.FindAllString(raw, -1) {
		out = append(out, model.Contact{Kind: model.ContactPhone, Value: phone})
	}
	for _, email := range emailRe.FindAllString(raw, -1) {
		out = append(out, model.Contact{Kind: model.ContactEmail, Value: email})
	}
	return out
}

func keywords(raw string) []string {
	lower := strings.ToLower(raw)
	out := make([]string, 0)
	for _, term := range Vocabulary {
		if strings.Contains(lower, term) {
			out = append(out, term)
		}
	}
	return out
}

// faqs pairs a "¿...?" line with an immediately following "R:" line.
func faqs(raw string) []model.FAQ {
	out := make([]model.FAQ, 0)
	lines := strings.Split(raw, "\n")
	for i := 0; i+1 < len(lines); i++ {
		question := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(question, "¿") || !strings.HasSuffix(question, "?") {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if !strings.HasPrefix(next, "R:") {
			continue
		}
		out = append(out, model.FAQ{
			Question: question,
			Answer:   strings.TrimSpace(strings.TrimPrefix(next, "R:")),
		})
	}
	return out
}
