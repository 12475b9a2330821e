package cli

import (
	"github.com/spf13/cobra"

	"jce-assistant/internal/knowledge"
)

func newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the documents stored per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadStore()
			if err != nil {
				return err
			}
			cmd.Println(knowledge.Summary(store.All()))
			return nil
		},
	}
}
