package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"jce-assistant/internal/ingest"
	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/model"
	"jce-assistant/internal/pkg/pdfextract"
)

type runOptions struct {
	dir      string
	file     string
	category string
	workers  int
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest a directory of documents into the knowledge base",
		Long: `Reads every .txt, .md and .pdf file of the directory (not recursive),
extracts its record and saves the knowledge file. Files that cannot be read are
reported and skipped. With --file only that document is ingested, and a file
that cannot be read fails the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "documents directory (defaults to knowledge.documents_dir)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "ingest a single document instead of a directory")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "store every document under this category")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel extraction workers")
	cmd.MarkFlagsMutuallyExclusive("dir", "file")
	return cmd
}

func runIngest(cmd *cobra.Command, opts *runOptions) error {
	var category model.Category
	if opts.category != "" {
		c, ok := model.ParseCategory(opts.category)
		if !ok {
			return fmt.Errorf("%w: %q", knowledge.ErrUnknownCategory, opts.category)
		}
		category = c
	}

	cfg, store, err := loadStore()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	dir := opts.dir
	if dir == "" {
		dir = cfg.Knowledge.DocumentsDir
	}
	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Knowledge.IngestWorkers
	}

	var pdf ingest.TextExtractor
	if cfg.Knowledge.PDFEnabled {
		pdf = pdfextract.New(cfg.Knowledge.PDFMaxBytes)
	}

	pipeline := ingest.NewPipeline(store, pdf, workers, log)
	var report *ingest.Report
	if opts.file != "" {
		if err := pipeline.IngestFile(cmd.Context(), opts.file, category); err != nil {
			return fmt.Errorf("ingest %s failed: %w", opts.file, err)
		}
		report = &ingest.Report{Ingested: []string{knowledge.TitleFromFilename(opts.file)}}
	} else {
		report, err = pipeline.IngestDir(cmd.Context(), dir, category)
		if err != nil {
			return err
		}
	}
	if err := store.Save(); err != nil {
		return err
	}

	cmd.Printf("Ingested %d document(s) into %s\n", len(report.Ingested), store.Path())
	counts := store.Count()
	for _, c := range model.Categories {
		if counts[c] > 0 {
			cmd.Printf("  %s: %d\n", knowledge.CategoryLabel(c), counts[c])
		}
	}
	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d file(s):\n", len(report.Skipped))
		for _, s := range report.Skipped {
			cmd.Printf("  %s: %s\n", s.Path, s.Reason)
		}
	}
	return nil
}
