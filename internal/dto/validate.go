package dto

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal and Fecha are structs; expose them to tags such as
	// required/min/gt through their scalar value.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(Fecha); ok {
			return v.String()
		}
		return nil
	}, Fecha{})
}

// Validate runs the struct tags of req and returns the failing fields keyed
// by Go field name, or nil when req is valid.
func Validate(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// ValidarPeriodo checks the ordering of a collection period.
func ValidarPeriodo(inicio, fin Fecha) map[string]string {
	if !inicio.IsZero() && !fin.IsZero() && fin.Before(inicio.Time) {
		return map[string]string{"FechaFin": "gtefield"}
	}
	return nil
}
