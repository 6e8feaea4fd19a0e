// Package main provides the CLI entry point for xlresolve.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/henrye1/credit-paper/pkg/resolver"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlresolve [input.xlsm]",
		Short: "Resolve spreadsheet formulas to plain values",
		Long: `xlresolve reads a macro-enabled workbook, computes the values of its
formula cells for a constrained subset of formula syntax (direct references,
IFERROR, INDEX/MATCH, IF, ROUND, CONCATENATE, nested VLOOKUP) and writes a
values-only copy of the workbook. Cells that cannot be resolved are left
blank; the run never fails on formula content, only on file I/O.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringP("output", "o", "", "Output file path (default: unique file in the OS temp dir)")
	rootCmd.Flags().Int("max-passes", resolver.DefaultMaxPasses, "Maximum number of resolution passes")
	rootCmd.Flags().Bool("verbose", false, "Log per-pass resolution progress")

	viper.SetEnvPrefix("XLRESOLVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts := resolver.Options{
		MaxPasses:  viper.GetInt("max-passes"),
		OutputPath: viper.GetString("output"),
		Verbose:    viper.GetBool("verbose"),
	}

	res, err := resolver.Resolve(inputPath, opts)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "%d formula cells, %d resolved, %d unresolved, %d passes\n",
			res.Stats.FormulaCells, res.Stats.Resolved, res.Stats.Unresolved, res.Stats.Passes)
	}
	fmt.Println(res.OutputPath)
	return nil
}
