package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/palimpsest/regionfile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <regions.json>",
	Short: "Print a summary of a region file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := regionfile.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, page := range doc.Pages {
		fmt.Fprintf(out, "page %d: %s (%dx%d px, %d boxes)\n",
			i+1, page.Path, page.Width, page.Height, len(page.Regions))
		for j, r := range page.Regions {
			text := r.Text
			if text == "" {
				text = "<empty>"
			}
			fmt.Fprintf(out, "  box %d: (%d,%d) %dx%d %s\n",
				j+1, r.Left, r.Top, r.Width, r.Height, text)
		}
	}
	fmt.Fprintf(out, "%d pages, %d boxes\n", doc.PageCount(), doc.RegionCount())
	return nil
}
