package main

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/listenupapp/pagetrail/internal/query"
	"github.com/listenupapp/pagetrail/internal/service"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the reading dashboard summary as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd, flags, func(library *service.LibraryService) error {
				return writeJSON(cmd, library.Stats(cmd.Context()))
			})
		},
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var tab, tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries on a tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := query.ParseTab(tab)
			if err != nil {
				return err
			}
			return withLibrary(cmd, flags, func(library *service.LibraryService) error {
				res, err := library.ListEntries(cmd.Context(), query.Selection{Tab: t, Tag: tag})
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tAUTHORS\tSTATUS\tPROGRESS\tTAGS")
				for i := range res.Entries {
					e := &res.Entries[i]
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
						e.Book.ID,
						e.Book.Title,
						strings.Join(e.Book.Authors, ", "),
						e.Status.Status,
						int(math.Round(e.Progress()*100)),
						strings.Join(e.Status.Tags, ", "),
					)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d entries\n", len(res.Entries), res.Counts[query.TabAll])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "all", "tab: all, reading, finished, did-not-finish or re-read")
	cmd.Flags().StringVar(&tag, "tag", "", "only entries carrying this tag")
	return cmd
}

func newTagsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every known tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd, flags, func(library *service.LibraryService) error {
				for _, tag := range library.ListTags(cmd.Context()) {
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
				return nil
			})
		},
	}
}
