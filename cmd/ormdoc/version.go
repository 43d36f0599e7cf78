package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	orm "github.com/bowtieworks/automerge-orm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ormdoc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ormdoc version %s\n", strings.TrimSpace(orm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
