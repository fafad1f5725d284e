package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clingov/internal/contract"
	"clingov/internal/domain"
)

func newContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Inspect and enforce schema contracts",
	}
	cmd.AddCommand(newContractShowCmd())
	cmd.AddCommand(newContractDomainsCmd())
	cmd.AddCommand(newContractValidateCmd())
	cmd.AddCommand(newContractExportCmd())
	return cmd
}

func newContractShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <domain>",
		Short: "Print the prebuilt contract for a clinical domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.ForDomain(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
}

func newContractDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domains with prebuilt contracts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(strings.Join(contract.SupportedDomains(), "\n"))
		},
	}
}

func newContractValidateCmd() *cobra.Command {
	var (
		contractFile string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "validate <domain> <dataset.json>",
		Short: "Validate a dataset against a schema contract",
		Long:  "Validates against the domain's prebuilt contract, or against a YAML contract file when --contract is set.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainKey, path := args[0], args[1]

			var c *domain.DataContract
			var err error
			if contractFile != "" {
				c, err = contract.Load(contractFile)
			} else {
				c, err = contract.ForDomain(domainKey)
			}
			if err != nil {
				return err
			}

			ds, err := loadDataset(path)
			if err != nil {
				return err
			}

			result, err := contract.ValidateAgainstContract(ds, c)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if strict && result.Action == domain.ActionQuarantine {
				return fmt.Errorf("dataset quarantined: %d of %d records failed", result.FailedRecords, result.TotalRecords)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contractFile, "contract", "", "YAML contract file to validate against instead of the prebuilt contract")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the resulting action is quarantine")
	return cmd
}

func newContractExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <domain> <out.yaml>",
		Short: "Write the prebuilt contract for a domain to a YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.ForDomain(args[0])
			if err != nil {
				return err
			}
			if err := contract.Save(c, args[1]); err != nil {
				return err
			}
			cmd.Printf("wrote %s (schema hash %s)\n", args[1], c.SchemaHash())
			return nil
		},
	}
}
