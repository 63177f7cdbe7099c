package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mcnijman/go-emailaddress"
)

// fieldError is one entry of a validation failure response.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("handlers: gin validator engine is not go-playground/validator")
	}
	if errRegister := registerValidators(v); errRegister != nil {
		panic(fmt.Sprintf("handlers: register validators: %v", errRegister))
	}
}

// registerValidators installs JSON field naming and the emailaddr rule on v.
func registerValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		_, errParse := emailaddress.Parse(fl.Field().String())
		return errParse == nil
	})
}

// respondBindError writes a 422 with field-level details when binding fails.
// fallback is used when the payload could not be decoded at all.
func respondBindError(c *gin.Context, err error, fallback string) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fallback})
		return
	}
	fields := make([]fieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "emailaddr":
		return "value is not a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
