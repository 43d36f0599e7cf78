package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

var readCmd = &cobra.Command{
	Use:   "read [path]",
	Short: "Read a node as YAML",
	Long:  `Read the subtree at a slash-separated path (e.g. 'contacts/<id>') and print it as YAML.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := openManager(true)
		if err != nil {
			fatal("Failed to open document", err)
		}

		tree, err := exportTree(context.Background(), mgr.Document(), core.ParsePath(args[0]))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading node: %v\n", err)
			os.Exit(1)
		}

		out, err := yaml.Marshal(tree)
		if err != nil {
			fatal("Failed to encode YAML", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
