package pricing

import (
	"github.com/erp/productext/internal/domain/shared/strategy"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RuleStrategy turns a base price into the item price
type RuleStrategy interface {
	strategy.Strategy
	Apply(item *PricelistItem, base decimal.Decimal) decimal.Decimal
}

// FixedRule ignores the base price
type FixedRule struct {
	strategy.BaseStrategy
}

// NewFixedRule creates the "fixed" rule
func NewFixedRule() *FixedRule {
	return &FixedRule{BaseStrategy: strategy.NewBaseStrategy(string(ComputePriceFixed), strategy.StrategyTypePriceRule, "Fix Price")}
}

// Apply implements RuleStrategy
func (r *FixedRule) Apply(item *PricelistItem, _ decimal.Decimal) decimal.Decimal {
	return item.FixedPrice
}

// PercentageRule discounts the base price by a percentage
type PercentageRule struct {
	strategy.BaseStrategy
}

// NewPercentageRule creates the "percentage" rule
func NewPercentageRule() *PercentageRule {
	return &PercentageRule{BaseStrategy: strategy.NewBaseStrategy(string(ComputePricePercentage), strategy.StrategyTypePriceRule, "Percentage (discount)")}
}

// Apply implements RuleStrategy
func (r *PercentageRule) Apply(item *PricelistItem, base decimal.Decimal) decimal.Decimal {
	return base.Sub(base.Mul(item.PercentPrice).Div(hundred))
}

// FormulaRule applies discount, rounding, surcharge and margin bounds in that order
type FormulaRule struct {
	strategy.BaseStrategy
}

// NewFormulaRule creates the "formula" rule
func NewFormulaRule() *FormulaRule {
	return &FormulaRule{BaseStrategy: strategy.NewBaseStrategy(string(ComputePriceFormula), strategy.StrategyTypePriceRule, "Formula")}
}

// Apply implements RuleStrategy
func (r *FormulaRule) Apply(item *PricelistItem, base decimal.Decimal) decimal.Decimal {
	limit := base
	price := base.Sub(base.Mul(item.PriceDiscount).Div(hundred))
	if !item.PriceRound.IsZero() {
		price = valueobject.RoundToStep(price, item.PriceRound)
	}
	if !item.PriceSurcharge.IsZero() {
		price = price.Add(item.PriceSurcharge)
	}
	if !item.PriceMinMargin.IsZero() {
		price = decimal.Max(price, limit.Add(item.PriceMinMargin))
	}
	if !item.PriceMaxMargin.IsZero() {
		price = decimal.Min(price, limit.Add(item.PriceMaxMargin))
	}
	return price
}

// DefaultRules returns a registry holding the built-in rule strategies
func DefaultRules() *strategy.Registry[RuleStrategy] {
	rules := strategy.NewRegistry[RuleStrategy](strategy.StrategyTypePriceRule)
	rules.Register(NewFixedRule())
	rules.Register(NewPercentageRule())
	rules.Register(NewFormulaRule())
	return rules
}
