// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/pkg/types"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the research domains usable with --include-domains and --exclude-domains",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%-22s  %s\n", "ID", "Name")
		for _, d := range types.AllDomains {
			fmt.Fprintf(os.Stdout, "%-22s  %s\n", string(d), d.DisplayName())
		}
	},
}

func init() {
	rootCmd.AddCommand(domainsCmd)
}
