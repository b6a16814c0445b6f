package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/adump/internal/core/pool/adump"
	"github.com/fenilsonani/adump/pkg/cas"
)

func newInitCommand() *cobra.Command {
	var newfile bool
	var limit uint32

	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create an empty chunk pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cas.Create(args[0], newfile, limit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty pool in %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&newfile, "newfile", false, "start a new pool file per write session")
	cmd.Flags().Uint32Var(&limit, "limit", adump.DefaultLimit, "size ceiling for a single pool file")
	return cmd
}
