package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/store"
	"github.com/spf13/cobra"
)

// DateLayout is how dates are given on and printed to the command line.
const DateLayout = "2006-01-02"

func newDocsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"scrolls"},
		Short:   "Browse and manage documents",
	}
	cmd.AddCommand(
		newDocsListCmd(opts),
		newDocsSearchCmd(opts),
		newDocsShowCmd(opts),
		newDocsPreviewCmd(opts),
		newDocsUploadCmd(opts),
		newDocsUpdateCmd(opts),
		newDocsRenameCmd(opts),
		newDocsMoveCmd(opts),
		newDocsDeleteCmd(opts),
		newDocsDownloadCmd(opts),
		newDocsStatsCmd(opts),
	)
	return cmd
}

func formatDate(d *record.Document) string {
	t, ok := d.UploadDate()
	if !ok {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func printDocuments(w io.Writer, docs []*record.Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUPLOADER\tUPLOADED")
	for _, d := range docs {
		name, _ := d.Name()
		uploader, _ := d.UploaderID()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID(), name, uploader, formatDate(d))
	}
	return tw.Flush()
}

func newDocsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every document, newest first",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			docs, err := e.vault.Documents.List(e.account)
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), docs)
		}),
	}
}

func newDocsSearchCmd(opts *options) *cobra.Command {
	var (
		f             store.Filter
		after, before string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find documents by uploader, id, name or upload date",
		Long: `Find documents matching every given filter, newest first. --name matches
a case-insensitive substring. --after and --before take ` + DateLayout + ` and
include the whole day.`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			var err error
			if f.After, err = parseDate("after", after); err != nil {
				return err
			}
			if f.Before, err = parseDate("before", before); err != nil {
				return err
			}
			docs, err := e.vault.Documents.Search(e.account, f)
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), docs)
		}),
	}
	cmd.Flags().StringVar(&f.UploaderID, "uploader", "", "Uploader account id")
	cmd.Flags().StringVar(&f.ID, "id", "", "Document id")
	cmd.Flags().StringVar(&f.NameContains, "name", "", "Part of the document name")
	cmd.Flags().StringVar(&after, "after", "", "Uploaded on or after this date")
	cmd.Flags().StringVar(&before, "before", "", "Uploaded on or before this date")
	return cmd
}

func parseDate(flag, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &t, nil
}

func newDocsShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show the metadata of a document",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			d, err := e.vault.Documents.View(e.account, args[0])
			if err != nil {
				return err
			}
			name, _ := d.Name()
			uploader, _ := d.UploaderID()
			_, hasContent := d.ContentPath()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID:\t%s\n", d.ID())
			fmt.Fprintf(tw, "Name:\t%s\n", name)
			fmt.Fprintf(tw, "Uploader:\t%s\n", uploader)
			fmt.Fprintf(tw, "Uploaded:\t%s\n", formatDate(d))
			fmt.Fprintf(tw, "Content:\t%t\n", hasContent)
			return tw.Flush()
		}),
	}
}

func newDocsPreviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview ID",
		Short: "Print the beginning of a document",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			p, err := e.vault.Documents.Preview(e.account, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n%s", p.Name, p.ID, p.Text)
			if p.Truncated {
				fmt.Fprint(out, "...")
			}
			fmt.Fprintln(out)
			return nil
		}),
	}
}

func newDocsUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload NAME FILE",
		Short: "Upload FILE as a new document",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			d, err := e.vault.Documents.Upload(e.account, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s\n", args[0], d.ID())
			return nil
		}),
	}
}

func newDocsUpdateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "update ID FILE",
		Short: "Replace the content of a document",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Documents.UpdateContent(e.account, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		}),
	}
}

func newDocsRenameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Change the name of a document",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Documents.Rename(e.account, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
			return nil
		}),
	}
}

func newDocsMoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID NEW_ID",
		Short: "Change the id of a document",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Documents.ChangeID(e.account, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", args[0], args[1])
			return nil
		}),
	}
}

func newDocsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Documents.Delete(e.account, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newDocsDownloadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "download ID DEST",
		Short: "Copy the content of a document to DEST",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.vault.Documents.Download(e.account, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s to %s\n", args[0], args[1])
			return nil
		}),
	}
}

func newDocsStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize every document (admin only)",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, e *env, _ []string) error {
			stats, err := e.vault.Admin.Stats(e.account)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUPLOADER\tUPLOADED\tCONTENT")
			for _, st := range stats {
				date := "-"
				if !st.UploadDate.IsZero() {
					date = st.UploadDate.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", st.ID, st.Name, st.UploaderID, date, st.HasContent)
			}
			fmt.Fprintf(tw, "\nTotal: %d\n", len(stats))
			return tw.Flush()
		}),
	}
}
