package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/spf13/cobra"
)

var validateDraftFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a draft file",
	Long: `Checks a draft JSON file against the draft schema, the field rules and
every step gate, and prints a report. Exits non-zero when anything fails.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateDraftFile, "draft", "d", "", "Path to draft JSON file (required)")
	_ = validateCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	printer := observability.NewPrinter(cmd.OutOrStdout())

	draft, err := schemas.LoadDraftFile(validateDraftFile)
	if err != nil {
		return err
	}
	printer.PrintDraftSummary(draft.FormData)

	var fieldErrs wizard.FieldErrors
	if err := wizard.ValidateFormData(draft.FormData); err != nil && !errors.As(err, &fieldErrs) {
		return err
	}
	printer.PrintFieldErrors(fieldErrs)
	failed := len(fieldErrs) > 0

	results := wizard.CheckAll(draft.FormData)
	printer.PrintGateReport(results)
	for _, r := range results {
		if !r.Passed {
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("draft %s is not complete", validateDraftFile)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Draft is complete.")
	return nil
}
