package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bowtieworks/automerge-orm/pkg/adapters/filedoc"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the document file for external changes",
	Long:  `Watch prints an event line every time the snapshot file changes on disk, until interrupted.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := filedoc.Open(filedoc.Config{
			Path:      docFile,
			MustExist: true,
			Logger:    slog.Default(),
		})
		if err != nil {
			fatal("Failed to open document", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := doc.Watch(ctx)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %s (ctrl-c to stop)\n", docFile)
		for ev := range events {
			fmt.Println(ev)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
