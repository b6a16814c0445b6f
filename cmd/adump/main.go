package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "adump",
		Short: "A content-addressed chunk store for deduplicated backups",
		Long: `Adump stores backup data as content-addressed chunks in append-only
pool files. Duplicate chunks collapse automatically; chunks are read back
by their SHA-1 identity.`,
		Version:       version + " (commit: " + commit + ", built: " + date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newStoreCommand(),
		newCatCommand(),
		newBackupsCommand(),
		newInfoCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
