package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [path]",
	Short: "Delete a node from the document",
	Long:  `Delete permanently removes the node at the given path from the document.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := openManager(true)
		if err != nil {
			fatal("Failed to open document", err)
		}

		ctx := context.Background()
		doc := mgr.Document()
		path := core.ParsePath(args[0])

		kind, err := doc.Kind(ctx, path)
		if err != nil {
			fatal("Failed to inspect node", err)
		}
		if kind == core.KindAbsent {
			fmt.Fprintf(os.Stderr, "Error: no node at %s\n", path)
			os.Exit(1)
		}
		if err := doc.Delete(ctx, path); err != nil {
			fatal("Failed to delete node", err)
		}

		fmt.Printf("Node deleted: %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
