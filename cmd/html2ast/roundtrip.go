package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/html2md/internal/roundtrip"
	"github.com/spf13/cobra"
)

func newRoundtripCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <file.md>",
		Short: "Check that Markdown survives rendering to HTML and converting back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			report, err := roundtrip.Check(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Matched {
				fmt.Fprintf(out, "ok: %d nodes\n", report.Expected.Count())
				return nil
			}
			for _, d := range report.Divergences {
				fmt.Fprintln(out, d.String())
			}
			opts.log.Debug("rendered html", "html", report.HTML)
			return fmt.Errorf("%s: %d divergence(s)", args[0], len(report.Divergences))
		},
	}
}
