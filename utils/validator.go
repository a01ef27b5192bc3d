package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates obj against its `validate` tags.
func ValidateStruct(obj interface{}) error {
	return validate.Struct(obj)
}

// ValidationDetails flattens validator errors into one message per field.
// Errors of any other kind are returned as a single message.
func ValidationDetails(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("Campo requerido: %s", fe.Field()))
		case "oneof":
			details = append(details, fmt.Sprintf("Valor inválido para %s: debe ser uno de [%s]", fe.Field(), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("Campo %s no cumple la regla %s", fe.Field(), fe.Tag()))
		}
	}
	return details
}

// RUTWithoutDV strips dots and the check digit: "76.123.456-7" -> "76123456".
func RUTWithoutDV(rut string) string {
	rut = strings.ReplaceAll(strings.TrimSpace(rut), ".", "")
	if i := strings.LastIndex(rut, "-"); i >= 0 {
		return rut[:i]
	}
	return rut
}
