// Package main provides the typecast CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/richinex/typecast/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider     string
	instructions string
	temperature  float64
	verbose      bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "typecast",
		Short: "Type-directed structured output from LLMs",
		Long: `A CLI tool for converting free-form text into typed values with an LLM.

Commands:
- cast: convert data to a target type
- classify: pick the best label for data
- extract: pull all entities of a type out of data
- generate: synthesize examples of a type`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVarP(&instructions, "instructions", "i", "", "Additional instructions for the model")
	rootCmd.PersistentFlags().Float64VarP(&temperature, "temperature", "t", -1, "Sampling temperature (provider default if unset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(castCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cliOptions(cmd *cobra.Command) cli.Options {
	return cli.Options{
		Provider:     provider,
		Instructions: instructions,
		Temperature:  temperature,
		HasTemp:      cmd.Flags().Changed("temperature"),
		Verbose:      verbose,
	}
}

func castCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "cast [data]",
		Short: "Convert data to a target type",
		Long: `Convert free-form text into a value of the target type.

Examples:
  typecast cast "one, two, three" --type "[]int"
  typecast cast "the price was around 42 dollars" --type float
  typecast cast "CA, NY, TX" --type "[]string" -i "expand state abbreviations"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Cast(context.Background(), args[0], typeName, cliOptions(cmd))
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "string", "Target type (string, int, float, bool, []T, map[K]V)")

	return cmd
}

func classifyCmd() *cobra.Command {
	var labels []string

	cmd := &cobra.Command{
		Use:   "classify [data]",
		Short: "Pick the best label for data",
		Long: `Classify data into one of the given labels using a single
constrained-decoding call.

Examples:
  typecast classify "I love this product" -l positive -l negative -l neutral
  typecast classify "reset my password" -l billing -l account -l shipping`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Classify(context.Background(), args[0], labels, cliOptions(cmd))
		},
	}

	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Candidate label (repeatable, at least two)")

	return cmd
}

func extractCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "extract [data]",
		Short: "Pull all entities of a type out of data",
		Long: `Extract every entity of the target type from the data.

Examples:
  typecast extract "I bought 3 apples and 5 oranges" --type int
  typecast extract "call Ann on Monday and Bob on Friday" --type string -i "people's names"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Extract(context.Background(), args[0], typeName, cliOptions(cmd))
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "string", "Entity type (string, int, float, bool, []T, map[K]V)")

	return cmd
}

func generateCmd() *cobra.Command {
	var typeName string
	var n int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize examples of a type",
		Long: `Generate synthetic examples of the target type. Previously generated
examples are remembered per type and fed back to the model to keep new
outputs distinct.

Examples:
  typecast generate --type string -n 5 -i "names of fictional cities"
  typecast generate --type int -n 3 -i "prime numbers under 100"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Generate(context.Background(), typeName, n, cliOptions(cmd))
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "string", "Target type (string, int, float, bool, []T, map[K]V)")
	cmd.Flags().IntVarP(&n, "count", "n", 1, "Number of examples to generate")

	return cmd
}
