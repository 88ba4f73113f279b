package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON record against its schema",
	Long:  "Validate a saved record (candidate profile, repository report or composite report) against its embedded JSON schema.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name: "+strings.Join(schemas.Names(), ", "))
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the JSON file (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if err := schemas.ValidateFile(validateSchema, validateFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s\n", validateFile, validateSchema)
	return nil
}
