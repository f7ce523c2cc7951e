package cmd

import (
	"github.com/spf13/cobra"

	"simbadrun/internal/cli"
)

var modesOutputFormat string

// modesCmd lists the declared search modes and the program variant each one
// dispatches to.
var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the search modes and their program variants",
	Long: `Lists the declared search mode selectors, the SIMBAD program variant each
registered mode dispatches to, and whether the mode is registered at all.
Selecting an unregistered mode in a task is a configuration error at
synthesis time.`,
	Args: cobra.NoArgs,
	RunE: runModes,
}

func runModes(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(modesOutputFormat); err != nil {
		return err
	}

	rows := cli.ModeRows()
	if cli.OutputFormat(modesOutputFormat) == cli.OutputFormatTable {
		cli.RenderModes(cmd.OutOrStdout(), rows)
		return nil
	}
	return cli.RenderStructured(cmd.OutOrStdout(), cli.OutputFormat(modesOutputFormat), rows)
}

func init() {
	rootCmd.AddCommand(modesCmd)

	modesCmd.Flags().StringVarP(&modesOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}
