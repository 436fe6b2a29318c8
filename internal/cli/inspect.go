package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the models, decks and media of a package",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openInput(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			writeInspect(cmd.OutOrStdout(), summarize(a.flags.input, p))
			return nil
		},
	}
}

func writeInspect(w io.Writer, s summary) {
	fmt.Fprintf(w, "%s: %d notes, %d cards, %d review logs, %d graves\n\n",
		s.Path, s.Notes, s.Cards, s.ReviewLogs, s.Graves)

	fmt.Fprintln(w, renderTable("Models", modelColumns, s.Models))
	fmt.Fprintln(w, renderTable("Decks", deckColumns, s.Decks))

	for _, problem := range s.Problems {
		fmt.Fprintf(w, "warning: %s\n", problem)
	}

	if len(s.MediaFiles) == 0 {
		fmt.Fprintln(w, "No media.")
		return
	}
	var total uint64
	for _, m := range s.MediaFiles {
		total += uint64(m.Size)
	}
	fmt.Fprintln(w, renderTable("Media", mediaColumns, s.MediaFiles, "", "total", humanize.Bytes(total)))
}
