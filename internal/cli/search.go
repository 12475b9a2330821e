package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jce-assistant/internal/knowledge"
)

type searchOptions struct {
	limit int
	json  bool
}

func newSearchCommand() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank stored documents by occurrences of the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "maximum number of results")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output results as JSON")
	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts *searchOptions) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is empty")
	}
	_, store, err := loadStore()
	if err != nil {
		return err
	}

	matches := store.Search(query)
	if opts.limit > 0 && len(matches) > opts.limit {
		matches = matches[:opts.limit]
	}

	if opts.json {
		if matches == nil {
			matches = []knowledge.Match{}
		}
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results failed: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, m := range matches {
		cmd.Printf("  [%d] %s (%s) relevancia %d\n", i+1, m.Title, knowledge.CategoryLabel(m.Category), m.Relevance)
		cmd.Printf("      No. %s, %s\n", m.Number, m.Date)
	}
	return nil
}
