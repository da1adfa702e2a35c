package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photowall/internal/layout"
	"photowall/internal/photo"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags pipelineFlags
	var previewPage int

	cmd := &cobra.Command{
		Use:   "scan <path|glob>...",
		Short: "Import photos and show the planned pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := importPhotos(cmd, ctx, &flags, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sess := imported.session

			items := sess.Items()
			pages, err := sess.Plan()
			if err != nil {
				return err
			}
			mode := "individual files"
			if sess.WillArchive() {
				mode = "archive"
			}
			opts := sess.Options()
			fmt.Fprintf(out, "%d images, %d pages expected (%s, sorted by %s)\n", len(items), len(pages), mode, sess.SortKey())
			fmt.Fprintf(out, "Grid %d x %d, %d px wide, %s output\n", opts.Grid.Rows, opts.Grid.Columns, opts.Grid.MaxWidth, opts.Encoding.Format)
			if len(items) > 0 {
				fmt.Fprintln(out, renderItemsTable(items))
			}
			printSkipped(out, imported.result.Skipped)

			if previewPage > 0 {
				container, err := sess.Preview(previewPage)
				if err != nil {
					return err
				}
				printContainer(out, previewPage, container)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&previewPage, "layout", 0, "Show the computed geometry of the given page")
	return cmd
}

func renderItemsTable(items []*photo.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.Index + 1),
			item.Name,
			fmt.Sprintf("%dx%d", item.Width, item.Height),
			strconv.FormatFloat(item.AspectRatio, 'f', 2, 64),
			humanize.Bytes(uint64(max(item.Size, 0))),
			item.Type,
			item.FormattedDate(),
		})
	}
	return renderTable(
		[]string{"#", "Name", "Size", "Ratio", "Bytes", "Type", "Modified"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func printSkipped(out io.Writer, skipped []photo.Skipped) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(out, "Skipped %d file(s):\n", len(skipped))
	for _, s := range skipped {
		fmt.Fprintf(out, "  %s: %s\n", s.Name, s.Reason)
	}
}

func printContainer(out io.Writer, page int, c layout.Container) {
	fmt.Fprintf(out, "Page %d: %dx%d px, %d row(s) x %d column(s), background #%02x%02x%02x%02x\n",
		page, c.Width, c.Height, c.Rows, c.Columns,
		c.Background.R, c.Background.G, c.Background.B, c.Background.A)
	rows := make([][]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		rows = append(rows, []string{
			cell.Item.Name,
			formatRect(cell.Frame.Min.X, cell.Frame.Min.Y, cell.Frame.Dx(), cell.Frame.Dy()),
			formatRect(cell.Content.Min.X, cell.Content.Min.Y, cell.Content.Dx(), cell.Content.Dy()),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Name", "Cell", "Image"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
}

func formatRect(x, y, w, h int) string {
	return fmt.Sprintf("%dx%d @ %d,%d", w, h, x, y)
}
