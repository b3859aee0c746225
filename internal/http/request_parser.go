// Package http serves the Vibes Expense pages and htmx partials.
//
// This file implements utilities for parsing and validating HTTP request data:
// form decoding, path ids and the expense list query parameters.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vibes/internal/core"
)

const maxFormBytes = 64 << 10

// RequestBodyParser reads a request body once and exposes it as form values.
// It accepts url-encoded forms, the htmx default, and flat JSON objects.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxFormBytes+1))
	if p.err == nil && len(p.body) > maxFormBytes {
		p.err = errors.New("request body too large")
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a trimmed, sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput removes control characters except tab and newlines, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// FormValues is what a submitted form carried, kept to re-render it on errors.
type FormValues map[string]string

// ParseExpenseForm decodes an expense form. Unparseable fields are reported
// together with the validation rules of core.ExpenseInput.
func ParseExpenseForm(p *RequestBodyParser) (core.ExpenseInput, FormValues, core.ValidationErrors) {
	values := FormValues{
		"date":        p.Get("date"),
		"description": p.Get("description"),
		"category_id": p.Get("category_id"),
		"amount":      p.Get("amount"),
	}
	errs := core.ValidationErrors{}
	var in core.ExpenseInput

	in.Description = values["description"]
	if v := values["date"]; v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errs["date"] = "Data inválida"
		}
		in.Date = d
	}
	if v := values["category_id"]; v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs["category_id"] = "Categoria inválida"
		}
		in.CategoryID = id
	}
	if v := values["amount"]; v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			errs["amount"] = "Valor inválido"
		}
		in.Amount = m
	}

	mergeValidation(errs, in.Validate())
	if len(errs) == 0 {
		return in, values, nil
	}
	return in, values, errs
}

// ParseCategoryForm decodes a category form.
func ParseCategoryForm(p *RequestBodyParser) (core.CategoryInput, FormValues, core.ValidationErrors) {
	values := FormValues{
		"name":   p.Get("name"),
		"color":  p.Get("color"),
		"budget": p.Get("budget"),
	}
	errs := core.ValidationErrors{}
	in := core.CategoryInput{Name: values["name"], Color: values["color"]}
	if v := values["budget"]; v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			errs["budget"] = "Orçamento inválido"
		}
		in.Budget = m
	}

	mergeValidation(errs, in.Validate())
	if len(errs) == 0 {
		return in, values, nil
	}
	return in, values, errs
}

// mergeValidation adds rule failures for fields that parsed fine.
func mergeValidation(dst core.ValidationErrors, err error) {
	var verrs core.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for field, msg := range verrs {
		if _, seen := dst[field]; !seen {
			dst[field] = msg
		}
	}
}

// PathID reads the positive {id} path segment.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryID reads an optional positive ?id= used to open a form in edit mode.
func QueryID(q url.Values) (int64, bool) {
	v := strings.TrimSpace(q.Get("id"))
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryPage reads ?page=, reporting whether a usable page was given.
func QueryPage(q url.Values) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
