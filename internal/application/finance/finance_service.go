package finance

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceService sets up the companies, currencies and taxes prices are
// computed with
type FinanceService struct {
	companyRepo  finance.CompanyRepository
	currencyRepo finance.CurrencyRepository
	taxRepo      finance.TaxRepository
	logger       *zap.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(
	companyRepo finance.CompanyRepository,
	currencyRepo finance.CurrencyRepository,
	taxRepo finance.TaxRepository,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		companyRepo:  companyRepo,
		currencyRepo: currencyRepo,
		taxRepo:      taxRepo,
		logger:       logger,
	}
}

// CreateCompany creates a company. Its currency is created at par when the
// tenant does not have it yet.
func (s *FinanceService) CreateCompany(ctx context.Context, input CreateCompanyInput) (*CompanyInfo, error) {
	company, err := finance.NewCompany(input.TenantID, input.Name, input.CurrencyCode)
	if err != nil {
		return nil, err
	}

	_, err = s.currencyRepo.FindByCode(ctx, input.TenantID, company.CurrencyCode)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if _, err := s.CreateCurrency(ctx, CreateCurrencyInput{TenantID: input.TenantID, Code: company.CurrencyCode.String()}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("currency", company.CurrencyCode.String()),
	)
	info := ToCompanyInfo(company)
	return &info, nil
}

// CreateCurrency creates a currency without rates
func (s *FinanceService) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (*CurrencyInfo, error) {
	currency, err := finance.NewCurrency(input.TenantID, input.Code, input.Rounding)
	if err != nil {
		return nil, err
	}
	currency.Symbol = input.Symbol

	_, err = s.currencyRepo.FindByCode(ctx, input.TenantID, currency.Code)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Currency "+currency.Code.String()+" already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := s.currencyRepo.Save(ctx, currency); err != nil {
		return nil, err
	}
	info := ToCurrencyInfo(currency)
	return &info, nil
}

// AddRate records a dated rate on an existing currency
func (s *FinanceService) AddRate(ctx context.Context, input AddRateInput) (*CurrencyInfo, error) {
	code, err := valueobject.ParseCurrencyCode(input.Code)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	currency, err := s.currencyRepo.FindByCode(ctx, input.TenantID, code)
	if err != nil {
		return nil, err
	}
	if input.CompanyID != nil {
		if _, err := s.companyRepo.FindByID(ctx, input.TenantID, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := currency.AddRate(input.Date, input.Rate, input.CompanyID); err != nil {
		return nil, err
	}
	if err := s.currencyRepo.Save(ctx, currency); err != nil {
		return nil, err
	}
	s.logger.Info("Currency rate recorded",
		zap.String("currency", code.String()),
		zap.Time("date", input.Date),
		zap.String("rate", input.Rate.String()),
	)
	info := ToCurrencyInfo(currency)
	return &info, nil
}

// CreateTax creates a tax on the given company, or on the first one
func (s *FinanceService) CreateTax(ctx context.Context, input CreateTaxInput) (*TaxInfo, error) {
	var (
		company *finance.Company
		err     error
	)
	if input.CompanyID != uuid.Nil {
		company, err = s.companyRepo.FindByID(ctx, input.TenantID, input.CompanyID)
	} else {
		company, err = s.companyRepo.FindFirst(ctx, input.TenantID)
	}
	if err != nil {
		return nil, err
	}

	tax, err := finance.NewTax(input.TenantID, company.ID, input.Name, input.AmountType, input.Amount)
	if err != nil {
		return nil, err
	}
	tax.PriceInclude = input.PriceInclude
	tax.IncludeBaseAmount = input.IncludeBaseAmount
	if input.Sequence > 0 {
		tax.Sequence = input.Sequence
	}
	if err := s.taxRepo.Save(ctx, tax); err != nil {
		return nil, err
	}
	info := ToTaxInfo(tax)
	return &info, nil
}
