package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

var writeData string

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write [path]",
	Short: "Write fields into a node",
	Long: `Merge a YAML value into the node at the given path. Mappings merge key
by key, preserving keys not mentioned; scalars overwrite. The value comes
from --data or stdin.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data := []byte(writeData)
		if writeData == "" {
			in, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			data = in
		}

		var value any
		if err := yaml.Unmarshal(data, &value); err != nil {
			fatal("Failed to parse YAML value", err)
		}

		mgr, err := openManager(false)
		if err != nil {
			fatal("Failed to open document", err)
		}

		path := core.ParsePath(args[0])
		if err := putTree(context.Background(), mgr.Document(), path, value); err != nil {
			fatal("Failed to write node", err)
		}

		fmt.Printf("Node written: %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVarP(&writeData, "data", "d", "", "YAML value to merge (defaults to stdin)")
}
