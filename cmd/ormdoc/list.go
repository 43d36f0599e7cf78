package main

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

var listGlob string

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List entity paths in the document",
	Long: `List the child keys under a path. Without arguments, every
collection/identity pair in the document is listed. With --glob, paths are
filtered by a doublestar pattern (e.g. 'contacts/*').`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := openManager(true)
		if err != nil {
			fatal("Failed to open document", err)
		}
		ctx := context.Background()
		doc := mgr.Document()

		var paths []core.Path
		if len(args) == 1 {
			base := core.ParsePath(args[0])
			keys, err := doc.Keys(ctx, base)
			if err != nil {
				fatal("Failed to list keys", err)
			}
			for _, k := range keys {
				paths = append(paths, base.Child(k))
			}
		} else {
			collections, err := doc.Keys(ctx, nil)
			if err != nil {
				fatal("Failed to list collections", err)
			}
			for _, c := range collections {
				p := core.Path{c}
				kind, err := doc.Kind(ctx, p)
				if err != nil {
					fatal("Failed to inspect collection", err)
				}
				if kind != core.KindMap {
					paths = append(paths, p)
					continue
				}
				keys, err := doc.Keys(ctx, p)
				if err != nil {
					fatal("Failed to list keys", err)
				}
				for _, k := range keys {
					paths = append(paths, p.Child(k))
				}
			}
		}

		for _, p := range paths {
			if listGlob != "" {
				ok, err := doublestar.Match(listGlob, p.String())
				if err != nil {
					fatal("Invalid glob pattern", err)
				}
				if !ok {
					continue
				}
			}
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listGlob, "glob", "", "Filter paths by doublestar pattern")
}
