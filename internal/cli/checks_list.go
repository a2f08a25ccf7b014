package cli

import (
	"fmt"
	"io"
	"strings"

	"prodguard/internal/checks"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	checksListQuiet bool
	checksListTier  string
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Manage and list checks",
	Long: `Manage Prod-Guard checks.

This command group helps you discover which checks exist and what each check verifies.
Checks are evaluated during a run (see "prodguard run --help").

Examples:
  # List all available checks
  prodguard checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checks",
	Long: `List all checks currently registered in this build.

Checks are sorted by code. PREMIUM checks only run with --premium.

Examples:
  prodguard checks list
  prodguard checks list --tier premium -q

Output:
  A vertical list of checks:
    ----------------------------------------
    CHECK: {CODE} ({SEVERITY}, {TIER})
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tier := strings.ToUpper(strings.TrimSpace(checksListTier))
		if tier != "" && tier != string(checks.TierFree) && tier != string(checks.TierPremium) {
			return fmt.Errorf("unsupported --tier: %s (must be one of: free, premium)", checksListTier)
		}

		for _, d := range checks.List() {
			if tier != "" && string(d.Tier) != tier {
				continue
			}
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), d.Code)
			} else {
				printCheck(cmd.OutOrStdout(), d)
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its code.

Examples:
  prodguard checks show PG-203
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok := checks.Lookup(args[0])
		if !ok {
			return fmt.Errorf("check not found: %s", args[0])
		}
		printCheck(cmd.OutOrStdout(), d)
		return nil
	},
}

func printCheck(w io.Writer, d checks.Descriptor) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s (%s, %s)\n", d.Code, d.DefaultSeverity, d.Tier)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, d.Title)
	if d.Description != "" {
		fmt.Fprintln(w, d.Description)
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check codes")
	checksListCmd.Flags().StringVar(&checksListTier, "tier", "", "Only list checks of this tier: free|premium")
	checksCmd.AddCommand(checksShowCmd)
}
