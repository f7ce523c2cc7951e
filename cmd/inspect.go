package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"simbadrun/internal/cli"
	"simbadrun/internal/mtz"
)

var inspectOutputFormat string

// inspectCmd reads a reflection file header and shows everything simbadrun
// derives from it: the column catalogue, the preferred interpretation, and
// the suggested label parameters.
var inspectCmd = &cobra.Command{
	Use:   "inspect <reflection-file.mtz>",
	Short: "Inspect a reflection file's column catalogue",
	Long: `Parses the header of a CCP4 MTZ reflection file and shows the column
catalogue, cell and space group, the preferred interpretation (merged
intensities vs amplitudes), and the column labels simbadrun would suggest
for the F, SIGF and FreeR_flag parameters.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// cellInfo mirrors mtz.Cell with serialization tags for structured output.
type cellInfo struct {
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	C     float64 `json:"c" yaml:"c"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// labelInfo carries the suggested label parameters for structured output.
type labelInfo struct {
	F      string `json:"f,omitempty" yaml:"f,omitempty"`
	SigF   string `json:"sigf,omitempty" yaml:"sigf,omitempty"`
	Free   string `json:"freeRFlag,omitempty" yaml:"freeRFlag,omitempty"`
	FPlus  string `json:"fPlus,omitempty" yaml:"fPlus,omitempty"`
	FMinus string `json:"fMinus,omitempty" yaml:"fMinus,omitempty"`
}

// inspectInfo is the structured form of everything inspect shows.
type inspectInfo struct {
	Path             string          `json:"path" yaml:"path"`
	Title            string          `json:"title,omitempty" yaml:"title,omitempty"`
	SpaceGroup       string          `json:"spaceGroup,omitempty" yaml:"spaceGroup,omitempty"`
	SpaceGroupNumber int             `json:"spaceGroupNumber,omitempty" yaml:"spaceGroupNumber,omitempty"`
	Cell             cellInfo        `json:"cell" yaml:"cell"`
	ResolutionLow    float64         `json:"resolutionLow" yaml:"resolutionLow"`
	ResolutionHigh   float64         `json:"resolutionHigh" yaml:"resolutionHigh"`
	NumReflections   int             `json:"reflections" yaml:"reflections"`
	Columns          []cli.ColumnRow `json:"columns" yaml:"columns"`
	Interpretation   string          `json:"interpretation" yaml:"interpretation"`
	Labels           labelInfo       `json:"suggestedLabels" yaml:"suggestedLabels"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(inspectOutputFormat); err != nil {
		return err
	}

	path := args[0]
	file, err := mtz.Open(path)
	if err != nil {
		return err
	}

	columns := file.Columns()
	labels := mtz.SuggestLabels(columns)
	info := inspectInfo{
		Path:             path,
		Title:            file.Title,
		SpaceGroup:       file.SpaceGroupName,
		SpaceGroupNumber: file.SpaceGroupNumber,
		Cell: cellInfo{
			A: file.Cell.A, B: file.Cell.B, C: file.Cell.C,
			Alpha: file.Cell.Alpha, Beta: file.Cell.Beta, Gamma: file.Cell.Gamma,
		},
		ResolutionLow:  file.ResolutionLow,
		ResolutionHigh: file.ResolutionHigh,
		NumReflections: file.NumReflections,
		Columns:        cli.ColumnRows(columns),
		Interpretation: mtz.DetectFromCatalogue(columns).String(),
		Labels: labelInfo{
			F:      labels.F,
			SigF:   labels.SigF,
			Free:   labels.Free,
			FPlus:  labels.FPlus,
			FMinus: labels.FMinus,
		},
	}

	if cli.OutputFormat(inspectOutputFormat) != cli.OutputFormatTable {
		return cli.RenderStructured(cmd.OutOrStdout(), cli.OutputFormat(inspectOutputFormat), info)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", info.Path)
	if info.Title != "" {
		fmt.Fprintf(out, "Title:       %s\n", info.Title)
	}
	if info.SpaceGroup != "" {
		fmt.Fprintf(out, "Space group: %s (%d)\n", info.SpaceGroup, info.SpaceGroupNumber)
	}
	fmt.Fprintf(out, "Cell:        %.3f %.3f %.3f  %.3f %.3f %.3f\n",
		info.Cell.A, info.Cell.B, info.Cell.C, info.Cell.Alpha, info.Cell.Beta, info.Cell.Gamma)
	fmt.Fprintf(out, "Resolution:  %.2f - %.2f\n", info.ResolutionLow, info.ResolutionHigh)
	fmt.Fprintf(out, "Reflections: %d\n\n", info.NumReflections)

	cli.RenderColumns(out, info.Columns)

	fmt.Fprintf(out, "\nPreferred interpretation: %s\n", info.Interpretation)
	fmt.Fprintln(out, "Suggested labels:")
	fmt.Fprintf(out, "  F:          %s\n", orDash(info.Labels.F))
	fmt.Fprintf(out, "  SIGF:       %s\n", orDash(info.Labels.SigF))
	fmt.Fprintf(out, "  FreeR_flag: %s\n", orDash(info.Labels.Free))
	if info.Labels.FPlus != "" || info.Labels.FMinus != "" {
		fmt.Fprintf(out, "  F(+)/F(-):  %s / %s\n", orDash(info.Labels.FPlus), orDash(info.Labels.FMinus))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}
