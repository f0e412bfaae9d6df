package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostmate/internal/model"
	"github.com/erazemk/lostmate/internal/query"
	"github.com/erazemk/lostmate/internal/seed"
	"github.com/erazemk/lostmate/internal/storage"
	"github.com/erazemk/lostmate/internal/store"
)

func newItemsCmd(a *app) *cobra.Command {
	var filter query.Filter

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List stored listings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Type != "" && filter.Type != query.TypeAll && !model.ItemType(filter.Type).Valid() {
				return fmt.Errorf("--type must be all, lost or found")
			}
			return a.listItems(cmd.Context(), filter)
		},
	}
	cmd.Flags().StringVarP(&filter.Type, "type", "t", query.TypeAll, "all, lost or found")
	cmd.Flags().StringVarP(&filter.Text, "query", "q", "", "text to search for in title, category, location and description")
	return cmd
}

func (a *app) listItems(ctx context.Context, filter query.Filter) error {
	database, dialect, err := a.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	st := store.New(storage.NewSQL(database, dialect), seed.Default(), store.WithLogger(a.log))
	defer st.Close()
	st.Initialize(ctx)

	items := query.Apply(st.Items(), filter)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tDATE\tTITLE\tLOCATION")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Type, item.Status, item.Date, item.Title, item.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := query.Summarize(items)
	fmt.Fprintf(a.out, "\n%d listings, %d active, %d claimed\n", summary.Total, summary.Active, summary.Claimed)
	return nil
}
