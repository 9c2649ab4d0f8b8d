package identity

import (
	"context"
	"fmt"

	"github.com/erp/productext/internal/domain/shared"
)

// GroupProductsManagement is the group allowed to manage products
const GroupProductsManagement = "product_management_group.group_products_management"

// ErrProductManagementDenied is raised when a user outside the products
// management group tries to modify products
var ErrProductManagementDenied = shared.NewDomainError(
	"ACCESS_DENIED",
	"Sorry, you are not allowed to manage products.Only users with 'Products Management' level are currently allowed to do that",
)

// AccessChecker decides whether a user may perform mode on a model.
// model is a model name or a ModelRef. When raiseException is false a denial
// is reported as (false, nil) instead of an ACCESS_DENIED error.
type AccessChecker interface {
	Check(ctx context.Context, user *User, model any, mode AccessMode, raiseException bool) (bool, error)
}

// ModelAccessChecker applies model access rules
type ModelAccessChecker struct {
	rules []ModelAccess
}

// NewModelAccessChecker creates a checker over the given rules
func NewModelAccessChecker(rules []ModelAccess) *ModelAccessChecker {
	return &ModelAccessChecker{rules: rules}
}

// Check implements AccessChecker. The superuser is always allowed; other
// users need a rule on the model that applies to them and grants mode.
func (c *ModelAccessChecker) Check(ctx context.Context, user *User, model any, mode AccessMode, raiseException bool) (bool, error) {
	modelName, err := ResolveModel(model)
	if err != nil {
		return false, err
	}
	if user.IsSuperuser {
		return true, nil
	}
	for _, rule := range c.rules {
		if rule.Model == modelName && rule.AppliesTo(user) && rule.Grants(mode) {
			return true, nil
		}
	}
	if raiseException {
		return false, shared.NewDomainError(
			shared.ErrAccessDenied.Code,
			fmt.Sprintf("You are not allowed to access '%s' (%s)", modelName, mode),
		)
	}
	return false, nil
}

// ProductManagementChecker restricts product modifications to the products
// management group and delegates every other decision.
type ProductManagementChecker struct {
	next AccessChecker
}

// NewProductManagementChecker wraps next
func NewProductManagementChecker(next AccessChecker) *ProductManagementChecker {
	return &ProductManagementChecker{next: next}
}

// Check implements AccessChecker
func (c *ProductManagementChecker) Check(ctx context.Context, user *User, model any, mode AccessMode, raiseException bool) (bool, error) {
	modelName, err := ResolveModel(model)
	if err != nil {
		return false, err
	}

	// the superuser bypasses group membership, e.g. for automated actions on variants
	if user.IsSuperuser {
		return true, nil
	}

	if mode != AccessModeRead && isProductModel(modelName) {
		if user.HasGroup(GroupProductsManagement) {
			return true, nil
		}
		if raiseException {
			return false, ErrProductManagementDenied
		}
		return false, nil
	}

	return c.next.Check(ctx, user, model, mode, raiseException)
}

func isProductModel(model string) bool {
	return model == ModelProductTemplate || model == ModelProductProduct
}
