package strategy

// StrategyType represents the family a strategy belongs to
type StrategyType string

const (
	// StrategyTypePlannedPrice computes a product's planned list price
	StrategyTypePlannedPrice StrategyType = "planned_price"
	// StrategyTypePriceRule computes a pricelist rule's price
	StrategyTypePriceRule StrategyType = "price_rule"
)

// String returns the string representation of the strategy type
func (t StrategyType) String() string {
	return string(t)
}

// IsValid returns true if the strategy type is valid
func (t StrategyType) IsValid() bool {
	switch t {
	case StrategyTypePlannedPrice, StrategyTypePriceRule:
		return true
	default:
		return false
	}
}

// Strategy is the base interface for all strategies
type Strategy interface {
	// Name returns the unique name of the strategy
	Name() string
	// Type returns the type of the strategy
	Type() StrategyType
	// Description returns a human-readable description
	Description() string
}

// BaseStrategy provides common implementation for strategies
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy creates a new BaseStrategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{
		name:         name,
		strategyType: strategyType,
		description:  description,
	}
}

// Name returns the strategy name
func (s BaseStrategy) Name() string {
	return s.name
}

// Type returns the strategy type
func (s BaseStrategy) Type() StrategyType {
	return s.strategyType
}

// Description returns the strategy description
func (s BaseStrategy) Description() string {
	return s.description
}

// Registry holds strategies of one type keyed by name
type Registry[S Strategy] struct {
	strategyType StrategyType
	items        map[string]S
}

// NewRegistry creates an empty registry for the given strategy type
func NewRegistry[S Strategy](strategyType StrategyType) *Registry[S] {
	return &Registry[S]{strategyType: strategyType, items: make(map[string]S)}
}

// Register adds s, replacing any strategy with the same name.
// Strategies of a different type are rejected.
func (r *Registry[S]) Register(s S) bool {
	if s.Type() != r.strategyType {
		return false
	}
	r.items[s.Name()] = s
	return true
}

// Get returns the strategy registered under name
func (r *Registry[S]) Get(name string) (S, bool) {
	s, ok := r.items[name]
	return s, ok
}

// Names returns the registered names
func (r *Registry[S]) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	return names
}
