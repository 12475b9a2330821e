// Package ingest reads regulatory documents from disk, extracts their records
// and stores them in the knowledge store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"jce-assistant/internal/extract"
	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/model"
)

const defaultWorkers = 4

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrPDFUnavailable    = errors.New("pdf text extraction is unavailable")
	ErrEmptyDocument     = errors.New("document has no text")
	ErrInvalidEncoding   = errors.New("document is not valid UTF-8")
	ErrDuplicateTitle    = errors.New("title already ingested in this run")
)

// TextExtractor pulls plain text out of a binary document.
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// Skipped records a file that could not be ingested.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes one ingestion run.
type Report struct {
	Ingested []string  `json:"ingested"`
	Skipped  []Skipped `json:"skipped"`
}

type Pipeline struct {
	store   *knowledge.Store
	pdf     TextExtractor
	log     *zap.Logger
	workers int
	now     func() time.Time
}

// NewPipeline builds a pipeline writing into store. A nil pdf extractor
// disables PDF ingestion; such files are skipped with a warning.
func NewPipeline(store *knowledge.Store, pdf TextExtractor, workers int, log *zap.Logger) *Pipeline {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		store:   store,
		pdf:     pdf,
		log:     log,
		workers: workers,
		now:     time.Now,
	}
}

type loaded struct {
	path string
	doc  model.RawDocument
	err  error
}

// IngestDir ingests every regular file of dir (not recursive) in name order.
// category overrides filename-based categorization when non-empty. Per-file
// failures are reported and skipped; only an unreadable directory or a
// cancelled context fail the run.
func (p *Pipeline) IngestDir(ctx context.Context, dir string, category model.Category) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir failed: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	results, err := p.loadAll(ctx, paths, category)
	if err != nil {
		return nil, err
	}

	type entryKey struct {
		category model.Category
		title    string
	}
	// Entries as they were before this run, so unchanged documents keep
	// their ingestion time whatever else the run writes.
	prior := make(map[entryKey]model.Entry)
	for _, r := range results {
		if r.err != nil {
			continue
		}
		key := entryKey{r.doc.Category, r.doc.Title}
		if e, ok := p.store.Get(key.category, key.title); ok {
			prior[key] = e
		}
	}

	report := &Report{}
	owners := make(map[entryKey]string)
	for _, r := range results {
		if r.err == nil {
			key := entryKey{r.doc.Category, r.doc.Title}
			if owner, taken := owners[key]; taken {
				r.err = fmt.Errorf("%w: %s", ErrDuplicateTitle, filepath.Base(owner))
			} else {
				owners[key] = r.path
			}
		}
		if r.err != nil {
			p.log.Warn("skip document", zap.String("path", r.path), zap.Error(r.err))
			report.Skipped = append(report.Skipped, Skipped{Path: r.path, Reason: r.err.Error()})
			continue
		}
		previous, existed := prior[entryKey{r.doc.Category, r.doc.Title}]
		if err := p.put(r.doc, previous, existed); err != nil {
			report.Skipped = append(report.Skipped, Skipped{Path: r.path, Reason: err.Error()})
			continue
		}
		p.log.Info("document ingested",
			zap.String("title", r.doc.Title),
			zap.String("category", string(r.doc.Category)),
			zap.String("format", r.doc.Format),
		)
		report.Ingested = append(report.Ingested, r.doc.Title)
	}
	return report, nil
}

// IngestFile ingests a single file.
func (p *Pipeline) IngestFile(ctx context.Context, path string, category model.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := p.load(path, category)
	if err != nil {
		return err
	}
	previous, existed := p.store.Get(doc.Category, doc.Title)
	if err := p.put(doc, previous, existed); err != nil {
		return err
	}
	p.log.Info("document ingested",
		zap.String("title", doc.Title),
		zap.String("category", string(doc.Category)),
		zap.String("format", doc.Format),
	)
	return nil
}

func (p *Pipeline) loadAll(ctx context.Context, paths []string, category model.Category) ([]loaded, error) {
	results := make([]loaded, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool failed: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			doc, err := p.load(path, category)
			results[i] = loaded{path: path, doc: doc, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = loaded{path: path, err: fmt.Errorf("schedule document failed: %w", submitErr)}
		}
	}
	wg.Wait()
	return results, nil
}

func (p *Pipeline) load(path string, category model.Category) (model.RawDocument, error) {
	format, err := formatOf(path)
	if err != nil {
		return model.RawDocument{}, err
	}

	var text string
	switch format {
	case model.FormatPDF:
		if p.pdf == nil {
			return model.RawDocument{}, ErrPDFUnavailable
		}
		text, err = p.pdf.ExtractFile(path)
		if err != nil {
			return model.RawDocument{}, fmt.Errorf("extract pdf text failed: %w", err)
		}
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return model.RawDocument{}, fmt.Errorf("read document failed: %w", err)
		}
		if !utf8.Valid(raw) {
			return model.RawDocument{}, ErrInvalidEncoding
		}
		text = string(raw)
	}
	if strings.TrimSpace(text) == "" {
		return model.RawDocument{}, ErrEmptyDocument
	}

	if category == "" {
		category = knowledge.Categorize(path)
	}
	return model.RawDocument{
		Title:      knowledge.TitleFromFilename(path),
		SourcePath: path,
		Category:   category,
		Text:       text,
		IngestedAt: p.now(),
		Format:     format,
	}, nil
}

// put stores doc with a freshly extracted record. An existing entry with the
// same text, source and format keeps its ingestion time so the persisted file
// stays stable.
func (p *Pipeline) put(doc model.RawDocument, existing model.Entry, existed bool) error {
	if existed &&
		existing.Text == doc.Text &&
		existing.SourcePath == doc.SourcePath &&
		existing.Format == doc.Format {
		doc.IngestedAt = existing.IngestedAt
	}
	entry := model.Entry{
		RawDocument: doc,
		Record:      extract.Extract(doc.Title, doc.Text),
	}
	return p.store.Put(doc.Category, doc.Title, entry)
}

func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		return model.FormatText, nil
	case ".md":
		return model.FormatMarkdown, nil
	case ".pdf":
		return model.FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
