package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/adump/pkg/cas"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <pool>",
		Short: "Show a pool's identity and on-disk footprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := cas.Open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "uuid: %s\n", pool.UUID())

			backs, err := pool.Backups()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "backups: %d\n", len(backs))

			names, err := filepath.Glob(filepath.Join(args[0], "pool-data-*.data"))
			if err != nil {
				return err
			}
			sort.Strings(names)

			var total uint64
			for _, name := range names {
				fi, err := os.Stat(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s  %s\n", filepath.Base(name), humanize.Bytes(uint64(fi.Size())))
				total += uint64(fi.Size())
			}
			fmt.Fprintf(out, "files: %d (%s)\n", len(names), humanize.Bytes(total))
			return nil
		},
	}
	return cmd
}
