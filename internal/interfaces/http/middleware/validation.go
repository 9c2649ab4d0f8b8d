package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/erp/productext/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupValidatorOnce sync.Once

// SetupValidator configures gin's validator: field names come from json or
// form tags, and the list_price_type and iso4217 tags follow the domain rules.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("list_price_type", validateListPriceType)
		_ = v.RegisterValidation("iso4217", validateISO4217)
	})
}

func validateListPriceType(fl validator.FieldLevel) bool {
	return catalog.ListPriceType(fl.Field().String()).IsValid()
}

func validateISO4217(fl validator.FieldLevel) bool {
	return valueobject.IsValidCurrencyCode(fl.Field().String())
}

// HandleBindError answers a failed ShouldBind* call. Validation failures list
// the offending fields; anything else is a malformed body.
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.ValidationDetail, 0, len(verrs))
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Request validation failed", GetRequestID(c), details))
		return
	}
	abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error())
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "list_price_type":
		return "Must be one of: manual by_margin other_currency"
	default:
		return "Invalid value"
	}
}
