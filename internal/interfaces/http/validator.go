package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Los errores usan el nombre json del campo (item_code, items[0].quantity...).
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// validateStruct valida s con las etiquetas validate.
func validateStruct(s any) error {
	return validate.Struct(s)
}

// formatValidationErrors convierte validator.ValidationErrors en campo → mensaje.
func formatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fields
	}
	for _, e := range ve {
		fields[fieldPath(e)] = formatFieldError(e)
	}
	return fields
}

// fieldPath quita el nombre del struct raíz: "CreateTransactionRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", e.Param())
		}
		return fmt.Sprintf("longitud mínima %s", e.Param())
	case "max":
		return fmt.Sprintf("longitud máxima %s", e.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", e.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", e.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", e.Param())
	case "datetime":
		return fmt.Sprintf("formato de fecha esperado %s", e.Param())
	default:
		return fmt.Sprintf("validación '%s' fallida", e.Tag())
	}
}
