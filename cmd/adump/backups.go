package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/adump/pkg/cas"
)

func newBackupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups <pool>",
		Short: "List the backup-root chunks in a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := cas.Open(args[0])
			if err != nil {
				return err
			}

			backs, err := pool.Backups()
			if err != nil {
				return err
			}
			sort.Slice(backs, func(i, j int) bool {
				return backs[i].Less(backs[j])
			})
			for _, id := range backs {
				fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
			}
			return nil
		},
	}
	return cmd
}
