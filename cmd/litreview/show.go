// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/pipeline"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Display a previously saved research result",
	Long: `Show reloads a result file written by 'litreview research --output' and
prints it without re-running the pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rf, err := pipeline.ReadResultFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Query: %s (saved %s)\n\n",
			rf.Query.Text, rf.Timestamp.Local().Format("2006-01-02 15:04"))

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatResult(rf.Result, jsonOutput)
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(showCmd)
}
