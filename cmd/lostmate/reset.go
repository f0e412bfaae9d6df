package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostmate/internal/storage"
	"github.com/erazemk/lostmate/internal/store"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget stored listings so the next start uses the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reset(cmd.Context())
		},
	}
}

func (a *app) reset(ctx context.Context) error {
	database, dialect, err := a.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := storage.NewSQL(database, dialect).Delete(ctx, store.StorageKey); err != nil {
		return err
	}
	a.log.Info().Str("key", store.StorageKey).Msg("stored listings removed")
	fmt.Fprintln(a.out, "Stored listings removed. The next start uses the default listings.")
	return nil
}
