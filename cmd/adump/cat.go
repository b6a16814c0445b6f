package main

import (
	"github.com/spf13/cobra"

	"github.com/fenilsonani/adump/internal/core/oid"
	"github.com/fenilsonani/adump/pkg/cas"
)

func newCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <pool> <oid>",
		Short: "Write a chunk's payload to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := cas.Open(args[0])
			if err != nil {
				return err
			}

			id, err := oid.ParseHex(args[1])
			if err != nil {
				return err
			}

			ch, err := pool.Find(id)
			if err != nil {
				return err
			}
			data, err := ch.Data()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
