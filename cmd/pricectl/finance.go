package main

import (
	"fmt"
	"time"

	financeapp "github.com/erp/productext/internal/application/finance"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newCompanyCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant   string
		currency string
	)

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a company",
		Long:  "Creates a company. The first company of a tenant is its default pricing company.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			info, err := a.finance.CreateCompany(cmd.Context(), financeapp.CreateCompanyInput{
				TenantID:     tenantID,
				Name:         args[0],
				CurrencyCode: currency,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}
	create.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	create.Flags().StringVar(&currency, "currency", "", "ISO 4217 accounting currency")
	_ = create.MarkFlagRequired("tenant")
	_ = create.MarkFlagRequired("currency")

	cmd := &cobra.Command{Use: "company", Short: "Manage companies"}
	cmd.AddCommand(create)
	return cmd
}

func newCurrencyCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{Use: "currency", Short: "Manage currencies and rates"}
	cmd.AddCommand(newCurrencyCreateCmd(withApp), newCurrencyAddRateCmd(withApp))
	return cmd
}

func newCurrencyCreateCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant   string
		symbol   string
		rounding string
	)

	cmd := &cobra.Command{
		Use:   "create <code>",
		Short: "Create a currency",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			step, err := parseDecimalFlag("rounding", rounding)
			if err != nil {
				return err
			}
			info, err := a.finance.CreateCurrency(cmd.Context(), financeapp.CreateCurrencyInput{
				TenantID: tenantID,
				Code:     args[0],
				Symbol:   symbol,
				Rounding: step,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Display symbol")
	cmd.Flags().StringVar(&rounding, "rounding", "0.01", "Rounding step")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func newCurrencyAddRateCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant  string
		company string
		date    string
		rate    string
	)

	cmd := &cobra.Command{
		Use:     "add-rate <code>",
		Short:   "Record a dated currency rate",
		Example: "  pricectl currency add-rate EUR --tenant $TENANT --rate 0.92 --date 2024-06-01",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			companyID, err := parseUUIDFlag("company", company)
			if err != nil {
				return err
			}
			value, err := parseDecimalFlag("rate", rate)
			if err != nil {
				return err
			}
			day := time.Now().UTC()
			if date != "" {
				if day, err = time.Parse(dateLayout, date); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			input := financeapp.AddRateInput{TenantID: tenantID, Code: args[0], Date: day, Rate: value}
			if companyID != uuid.Nil {
				input.CompanyID = &companyID
			}
			info, err := a.finance.AddRate(cmd.Context(), input)
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&company, "company", "", "Restrict the rate to one company")
	cmd.Flags().StringVar(&date, "date", "", "Rate date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&rate, "rate", "", "Units of this currency per unit of the reference currency")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newTaxCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant       string
		company      string
		amountType   string
		amount       string
		priceInclude bool
		includeBase  bool
		sequence     int
	)

	create := &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a sales tax",
		Example: `  pricectl tax create "VAT 21%" --tenant $TENANT --amount 21 --price-include`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			companyID, err := parseUUIDFlag("company", company)
			if err != nil {
				return err
			}
			value, err := parseDecimalFlag("amount", amount)
			if err != nil {
				return err
			}
			info, err := a.finance.CreateTax(cmd.Context(), financeapp.CreateTaxInput{
				TenantID:          tenantID,
				CompanyID:         companyID,
				Name:              args[0],
				AmountType:        finance.TaxAmountType(amountType),
				Amount:            value,
				PriceInclude:      priceInclude,
				IncludeBaseAmount: includeBase,
				Sequence:          sequence,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}
	create.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	create.Flags().StringVar(&company, "company", "", "Company ID (default: first company)")
	create.Flags().StringVar(&amountType, "type", string(finance.TaxAmountTypePercent), "percent, fixed or division")
	create.Flags().StringVar(&amount, "amount", "", "Tax amount")
	create.Flags().BoolVar(&priceInclude, "price-include", false, "Prices already include this tax")
	create.Flags().BoolVar(&includeBase, "include-base-amount", false, "Later taxes apply on top of this one")
	create.Flags().IntVar(&sequence, "sequence", 1, "Application order")
	_ = create.MarkFlagRequired("tenant")
	_ = create.MarkFlagRequired("amount")

	cmd := &cobra.Command{Use: "tax", Short: "Manage taxes"}
	cmd.AddCommand(create)
	return cmd
}

func parseDecimalFlag(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
