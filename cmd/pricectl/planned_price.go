package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type plannedPriceOutput struct {
	TemplateID    string `json:"template_id"`
	Code          string `json:"code"`
	ListPriceType string `json:"list_price_type"`
	ListPrice     string `json:"list_price"`
	PlannedPrice  string `json:"planned_price"`
}

func newPlannedPriceCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant  string
		company string
	)

	cmd := &cobra.Command{
		Use:   "planned-price <template-id>",
		Short: "Show the planned price of a product template",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			companyID, err := parseUUIDFlag("company", company)
			if err != nil {
				return err
			}
			templateID, err := parseUUIDFlag("template-id", args[0])
			if err != nil {
				return err
			}

			tmpl, err := a.templates.FindByID(cmd.Context(), tenantID, templateID)
			if err != nil {
				return fmt.Errorf("load template %s: %w", templateID, err)
			}
			planned, err := a.planned.PlannedPriceOf(cmd.Context(), tenantID, companyID, tmpl)
			if err != nil {
				return err
			}
			return writeJSON(cmd, plannedPriceOutput{
				TemplateID:    tmpl.ID.String(),
				Code:          tmpl.Code,
				ListPriceType: string(tmpl.ListPriceType),
				ListPrice:     tmpl.ListPrice.String(),
				PlannedPrice:  planned.String(),
			})
		}),
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&company, "company", "", "Company ID (default: first company)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
