package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	orm "github.com/bowtieworks/automerge-orm"
	"github.com/bowtieworks/automerge-orm/pkg/entity"
)

var (
	verbose bool
	docFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ormdoc",
	Short: "Inspect and edit YAML document snapshots used by automerge-orm",
	Long: `Ormdoc operates on a document snapshot file: the tree of collections,
entities and fields that the ORM maps typed entities onto. It reads and
writes nodes through the same path-addressed interface the mapping engine
uses.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&docFile, "file", "f", "document.yaml", "Document snapshot file")
}

// openManager opens the snapshot file with the file adapter.
func openManager(mustExist bool) (*entity.Manager, error) {
	return orm.Open(docFile,
		orm.WithAdapter("file"),
		orm.WithMustExist(mustExist),
		orm.WithLogger(slog.Default()),
	)
}
