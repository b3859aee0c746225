package core

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a JSON field name to a user facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Date and Money validate as their underlying scalar.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		return field.Interface().(Date).String()
	}, Date{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		return field.Interface().(Money).Cents
	}, Money{})
	return v
}

var messages = map[string]string{
	"date.required":        "Data é obrigatória",
	"description.required": "Descrição é obrigatória",
	"description.max":      "Descrição muito longa",
	"category_id.gt":       "Categoria é obrigatória",
	"amount.gt":            "Valor deve ser maior que zero",
	"name.required":        "Nome é obrigatório",
	"name.max":             "Nome muito longo",
	"color.required":       "Cor é obrigatória",
	"color.hexcolor":       "Cor inválida",
	"budget.gt":            "Orçamento deve ser maior que zero",
}

// validateStruct runs the struct tags of s and translates failures into ValidationErrors.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else {
			out[field] = "Valor inválido"
		}
	}
	return out
}

// ValidateRecord checks an aggregate or entity record received from the data API.
func ValidateRecord(rec interface{}) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("record %T: %w", rec, err)
	}
	return nil
}

// Validate reports whether d is set.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate reports whether m is a positive amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
