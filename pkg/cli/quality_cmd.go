package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clingov/internal/domain"
	"clingov/internal/quality"
)

func newQualityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Run quality validation rule sets",
	}
	cmd.AddCommand(newQualityValidateCmd())
	cmd.AddCommand(newQualityDomainsCmd())
	return cmd
}

func newQualityValidateCmd() *cobra.Command {
	var (
		idColumn string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "validate <domain> <dataset.json>",
		Short: "Validate a dataset against a domain's quality rule set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainKey, path := args[0], args[1]

			engine, err := quality.ForDomain(domainKey)
			if err != nil {
				return err
			}
			ds, err := loadDataset(path)
			if err != nil {
				return err
			}

			report := engine.Validate(ds, idColumn)
			report.SourcePath = path

			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if strict && report.Status == domain.StatusFailed {
				return fmt.Errorf("validation failed: %d of %d checks failed", report.Summary.Failed, report.Summary.TotalChecks)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&idColumn, "id-column", "", "column identifying records in failed-record lists (default USUBJID)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when validation status is failed")
	return cmd
}

func newQualityDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domains with registered rule sets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(strings.Join(quality.SupportedDomains(), "\n"))
		},
	}
}
