// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs recorded in the completed-job archive",
	Long: `Jobs reads the SQLite archive written by research runs invoked with
--archive and lists terminal jobs, most recent first. The live in-memory
registry is per-process and is not inspectable here.`,
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().String("archive", "litreview-jobs.db", "path to the job archive database")
	jobsCmd.Flags().Int("limit", 20, "maximum rows to list")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("archive")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no archive at %s: %w", path, err)
	}

	archive, err := jobs.OpenArchive(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	rows, err := archive.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No archived jobs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-19s  %-6s  %s\n",
		"ID", "Status", "Finished", "Papers", "Query")
	for _, j := range rows {
		finished := ""
		if !j.FinishedAt.IsZero() {
			finished = j.FinishedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-19s  %-6d  %s\n",
			j.ID, j.Status, finished, j.FinalCount, j.QueryText)
	}
	return nil
}
