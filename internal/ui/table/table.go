package table

import (
	"context"
	"io"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/babarot/xtrash/internal/fs"
	"github.com/babarot/xtrash/internal/trash"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gabriel-vasile/mimetype"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"
)

const (
	timeFormat = "2006-01-02 15:04:05"

	// sizeConcurrency caps the parallel directory walks
	sizeConcurrency = 8
)

type PrintOptions struct {
	// ShowRelativeTime adds "(3 days ago)" next to the deletion date
	ShowRelativeTime bool

	// ShowSize adds the on-disk size of each entry
	ShowSize bool

	// Long adds the content type and the path inside the trash
	Long bool

	// Now anchors relative times. Zero means time.Now().
	Now time.Time

	// SizeFunc computes sizes. Nil means fs.DirSize.
	SizeFunc func(string) (int64, error)
}

// PrintEntries writes entries as a table, in the order given
func PrintEntries(ctx context.Context, w io.Writer, entries []trash.Entry, opts PrintOptions) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var sizes []string
	if opts.ShowSize {
		var err error
		sizes, err = computeSizes(ctx, entries, opts.SizeFunc)
		if err != nil {
			return err
		}
	}

	green := color.New(color.FgHiGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	header := []string{"Deleted At"}
	if opts.ShowRelativeTime {
		header = append(header, "")
	}
	if opts.ShowSize {
		header = append(header, "Size")
	}
	if opts.Long {
		header = append(header, "Type")
	}
	header = append(header, "Path")
	if opts.Long {
		header = append(header, "Trashed As")
	}

	table := newTable(w)
	table.SetHeader(colorize(header, green))

	for i, e := range entries {
		row := []string{e.GetDeletedAt().Format(timeFormat)}
		if opts.ShowRelativeTime {
			row = append(row, gray("("+humanize.RelTime(e.GetDeletedAt(), opts.Now, "ago", "from now")+")"))
		}
		if opts.ShowSize {
			row = append(row, sizes[i])
		}
		if opts.Long {
			row = append(row, contentType(e))
		}
		row = append(row, e.GetOriginalPath())
		if opts.Long {
			row = append(row, shellescape.Quote(e.GetPath()))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// PrintOrphans writes entries whose content is gone, one per row
func PrintOrphans(w io.Writer, orphans []trash.EntryResult) {
	green := color.New(color.FgHiGreen).SprintFunc()

	table := newTable(w)
	table.SetHeader(colorize([]string{"Deleted At", "Path", "Info File"}, green))
	for _, r := range orphans {
		table.Append([]string{
			r.Entry.GetDeletedAt().Format(timeFormat),
			r.Entry.GetOriginalPath(),
			shellescape.Quote(r.InfoPath),
		})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

func colorize(cells []string, paint func(a ...any) string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = paint(c)
	}
	return out
}

func computeSizes(ctx context.Context, entries []trash.Entry, sizeFunc func(string) (int64, error)) ([]string, error) {
	if sizeFunc == nil {
		sizeFunc = fs.DirSize
	}

	sizes := make([]string, len(entries))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(sizeConcurrency)
	for i, e := range entries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := sizeFunc(e.GetPath())
			if err != nil {
				// missing content still gets a row
				sizes[i] = "-"
				return nil
			}
			sizes[i] = humanize.Bytes(uint64(n))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func contentType(e trash.Entry) string {
	if e.IsDir() {
		return "directory"
	}
	if !e.Exists() {
		return "missing"
	}
	mtype, err := mimetype.DetectFile(e.GetPath())
	if err != nil {
		return "unknown"
	}
	return mtype.String()
}
