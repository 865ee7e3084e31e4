package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(fieldName)

	_ = validate.RegisterValidation("cron", validateCron)
	_ = validate.RegisterValidation("dagname", validateDagName)
}

// fieldName reports fields by the name the client sent them under
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// validateCron accepts any standard five field cron expression. This is
// looser than the submission rules and only gates schedule previews.
func validateCron(fl validator.FieldLevel) bool {
	cronExpr := fl.Field().String()
	if cronExpr == "" {
		return true
	}

	_, err := cron.ParseStandard(cronExpr)
	return err == nil
}

func validateDagName(fl validator.FieldLevel) bool {
	return dag.IsValidName(fl.Field().String())
}

// ValidateRequest validates a request struct
func ValidateRequest(obj interface{}) error {
	return validate.Struct(obj)
}

// ValidationErrorResponse maps each failing field to a readable message
func ValidationErrorResponse(err error) map[string]interface{} {
	errors := make(map[string]interface{})

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["validation"] = err.Error()
		return errors
	}

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		param := fieldError.Param()

		var message string
		switch fieldError.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, param)
		case "cron":
			message = fmt.Sprintf("%s must be a valid cron expression", field)
		case "dagname":
			message = fmt.Sprintf("%s must contain only alphabetic characters", field)
		default:
			message = fmt.Sprintf("%s failed validation: %s", field, fieldError.Tag())
		}

		errors[field] = message
	}

	return errors
}

// BindAndValidate binds a JSON body into obj and validates it, writing a 400
// response on failure.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		AbortWithError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}

	return validateBound(c, obj)
}

// BindQueryAndValidate is BindAndValidate for query parameters
func BindQueryAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		AbortWithError(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return false
	}

	return validateBound(c, obj)
}

func validateBound(c *gin.Context, obj interface{}) bool {
	if err := ValidateRequest(obj); err != nil {
		AbortWithErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Request validation failed", ValidationErrorResponse(err))
		return false
	}

	return true
}
