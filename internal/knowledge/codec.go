package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"jce-assistant/internal/extract"
	"jce-assistant/internal/model"
)

const (
	formatVersion = 1

	keyVersion   = "version"
	keyUpdatedAt = "fecha_actualizacion"
)

// legacyCategoryKeys are category keys written by the first generation of
// loaders that used the singular document type as the key.
var legacyCategoryKeys = map[string]model.Category{
	"resolucion": model.CategoryResolution,
	"ley":        model.CategoryLaw,
	"reglamento": model.CategoryRegulation,
	"circular":   model.CategoryCircular,
	"general":    model.CategoryOther,
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type decodedStore struct {
	entries   map[model.Category]map[string]model.Entry
	updatedAt time.Time
}

// legacyEntry is the unversioned entry shape. Its extracted data is discarded
// and rebuilt from the raw text.
type legacyEntry struct {
	Text        string `json:"contenido"`
	Source      string `json:"fuente"`
	LoadedAt    string `json:"fecha_carga"`
	ProcessedAt string `json:"fecha_procesamiento"`
	Format      string `json:"formato"`
}

func encode(entries map[model.Category]map[string]model.Entry, updatedAt time.Time) ([]byte, error) {
	top := make(map[string]any, len(entries)+2)
	top[keyVersion] = formatVersion
	top[keyUpdatedAt] = updatedAt.Format(time.RFC3339Nano)
	for _, c := range model.Categories {
		bucket := entries[c]
		if bucket == nil {
			bucket = map[string]model.Entry{}
		}
		top[string(c)] = bucket
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(top); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(raw []byte) (*decodedStore, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	version := 0
	if body, ok := top[keyVersion]; ok {
		if err := json.Unmarshal(body, &version); err != nil {
			return nil, fmt.Errorf("%w: bad version: %v", ErrUnsupportedFormat, err)
		}
	}
	if version > formatVersion || version < 0 {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, version)
	}

	out := &decodedStore{entries: emptyEntries()}
	if body, ok := top[keyUpdatedAt]; ok {
		var stamp string
		if err := json.Unmarshal(body, &stamp); err == nil {
			out.updatedAt = parseTime(stamp)
		}
	}

	for key, body := range top {
		if key == keyVersion || key == keyUpdatedAt {
			continue
		}
		category, ok := model.ParseCategory(key)
		if !ok && version == 0 {
			category, ok = legacyCategoryKeys[key]
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrUnsupportedFormat, key)
		}

		var err error
		if version == 0 {
			err = decodeLegacyBucket(body, category, out.entries[category])
		} else {
			err = decodeBucket(body, category, out.entries[category])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", ErrUnsupportedFormat, key, err)
		}
	}
	return out, nil
}

func decodeBucket(body json.RawMessage, category model.Category, into map[string]model.Entry) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var bucket map[string]model.Entry
	if err := dec.Decode(&bucket); err != nil {
		return err
	}
	for title, entry := range bucket {
		entry.Title = title
		entry.Category = category
		into[title] = entry
	}
	return nil
}

func decodeLegacyBucket(body json.RawMessage, category model.Category, into map[string]model.Entry) error {
	var bucket map[string]legacyEntry
	if err := json.Unmarshal(body, &bucket); err != nil {
		return err
	}
	for key, legacy := range bucket {
		title := stripKnownExt(key)
		stamp := legacy.LoadedAt
		if stamp == "" {
			stamp = legacy.ProcessedAt
		}
		format := strings.ToLower(legacy.Format)
		if format == "" {
			format = formatFromName(firstNonEmpty(legacy.Source, key))
		}
		into[title] = model.Entry{
			RawDocument: model.RawDocument{
				Title:      title,
				SourcePath: legacy.Source,
				Category:   category,
				Text:       legacy.Text,
				IngestedAt: parseTime(stamp),
				Format:     format,
			},
			Record: extract.Extract(title, legacy.Text),
		}
	}
	return nil
}

func parseTime(raw string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stripKnownExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".pdf":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return model.FormatPDF
	case ".md":
		return model.FormatMarkdown
	default:
		return model.FormatText
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
