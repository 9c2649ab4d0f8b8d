package main

import (
	"encoding/json"
	"errors"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errTenantRequired = errors.New("--tenant is required unless --all is set")

type updateSummary struct {
	Batches   int                       `json:"batches"`
	Processed int                       `json:"processed"`
	Updated   int                       `json:"updated"`
	Results   []*catalogapp.BatchResult `json:"results"`
}

func newUpdatePricesCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant    string
		company   string
		batchSize int
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "update-prices",
		Short: "Copy planned prices into list prices",
		Long: `Runs the planned price update job until every product template is processed.
With --all every tenant owning planned prices is processed to the end, one after the other.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if !all && tenant == "" {
				return errTenantRequired
			}
			companyID, err := parseUUIDFlag("company", company)
			if err != nil {
				return err
			}
			opts := catalogapp.RunOptions{BatchSize: batchSize, CompanyID: companyID, NoRetrigger: true}

			var results []*catalogapp.BatchResult
			if all {
				results, err = a.job.RunAllUntilDone(cmd.Context(), opts)
			} else {
				var tenantID uuid.UUID
				tenantID, err = parseUUIDFlag("tenant", tenant)
				if err != nil {
					return err
				}
				results, err = a.job.RunUntilDone(cmd.Context(), tenantID, opts)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, summarize(results))
		}),
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&company, "company", "", "Company ID prices are computed for (default: first company)")
	cmd.Flags().IntVar(&batchSize, "batch-size", catalogapp.DefaultBatchSize, "Templates per batch")
	cmd.Flags().BoolVar(&all, "all", false, "Process every tenant with planned prices")
	cmd.MarkFlagsMutuallyExclusive("tenant", "all")
	return cmd
}

func summarize(results []*catalogapp.BatchResult) updateSummary {
	s := updateSummary{Batches: len(results), Results: results}
	for _, r := range results {
		s.Processed += r.Processed
		s.Updated += r.Updated
	}
	return s
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
