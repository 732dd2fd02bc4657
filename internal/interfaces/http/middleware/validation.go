package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupValidator sync.Once

// SetupValidator makes binding errors name fields the way clients send
// them: the json name, else the form name used by multipart requests
func SetupValidator() {
	setupValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return ""
		})
	})
}

// FormatValidationErrors turns a bind error into the error envelope.
// Validator failures become VALIDATION_ERROR with one detail per field;
// anything else, such as malformed JSON, is BAD_REQUEST.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]dto.ValidationDetail, len(fieldErrs))
		for i, fe := range fieldErrs {
			details[i] = dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe), Tag: fe.Tag()}
		}
		return dto.Invalid(requestID, details...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return dto.Invalid(requestID, dto.ValidationDetail{
			Field:   typeErr.Field,
			Message: "Must be a " + typeErr.Type.String(),
			Tag:     "type",
		})
	}
	return dto.Fail(dto.ErrCodeBadRequest, "Malformed request: "+err.Error(), requestID)
}

var fieldMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"hexcolor": "Must be a hex color",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("Must be at most %s%s", fe.Param(), unit)
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
