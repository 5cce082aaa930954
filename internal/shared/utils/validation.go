package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/candor-hq/candor/internal/shared/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	configureValidator(validate)

	// Share the same tag names and custom rules with gin's binding.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configureValidator(v)
	}
}

func configureValidator(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("severity", oneOfValidator("low", "medium", "high", "critical"))
	_ = v.RegisterValidation("issue_status", oneOfValidator("open", "in_progress", "resolved", "closed"))
	_ = v.RegisterValidation("update_type", oneOfValidator("status_change", "comment", "assignment", "resolution"))
	_ = v.RegisterValidation("role", oneOfValidator("employee", "manager", "hr", "admin"))
}

func oneOfValidator(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}

// ValidateStruct runs struct-tag validation and returns a validation AppError
// listing every failing field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError("Validation failed", err.Error())
	}
	return validationErrorFrom(verrs)
}

func validationErrorFrom(verrs validator.ValidationErrors) *errors.AppError {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldErrorMessage(fe))
	}
	return errors.NewValidationError("Validation failed", messages...)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "severity":
		return fmt.Sprintf("%s must be one of [low medium high critical]", field)
	case "issue_status":
		return fmt.Sprintf("%s must be one of [open in_progress resolved closed]", field)
	case "update_type":
		return fmt.Sprintf("%s must be one of [status_change comment assignment resolution]", field)
	case "role":
		return fmt.Sprintf("%s must be one of [employee manager hr admin]", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}
