// Package http serves the Vibes Expense pages and htmx partials.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// response formatting.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
)

// Client-side events fired through HX-Trigger.
const (
	EventDialogClose       = "dialog:close"
	EventFormReset         = "form:reset"
	EventShowNotification  = "show-notification"
	EventExpensesRefresh   = "expenses:refresh"
	EventCategoriesRefresh = "categories:refresh"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
	err        error
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerDialogClose asks the page to close the open modal.
func (b *HTMXResponseBuilder) TriggerDialogClose() *HTMXResponseBuilder {
	return b.Trigger(EventDialogClose, struct{}{})
}

// TriggerFormReset adds the form:reset trigger.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

// TriggerExpensesRefresh makes the expense table re-fetch in full.
func (b *HTMXResponseBuilder) TriggerExpensesRefresh() *HTMXResponseBuilder {
	return b.Trigger(EventExpensesRefresh, struct{}{})
}

// TriggerCategoriesRefresh makes the category grid re-fetch.
func (b *HTMXResponseBuilder) TriggerCategoriesRefresh() *HTMXResponseBuilder {
	return b.Trigger(EventCategoriesRefresh, struct{}{})
}

// MutationSucceeded is the trigger set of every successful create, update
// or delete: close the dialog, reset the form, toast, refresh refreshEvent.
func (b *HTMXResponseBuilder) MutationSucceeded(message, refreshEvent string) *HTMXResponseBuilder {
	return b.TriggerDialogClose().
		TriggerFormReset().
		TriggerSuccessNotification(message).
		Trigger(refreshEvent, struct{}{})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification trigger with the specified parameters.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger(EventShowNotification, map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
}

// TriggerSuccessNotification is a convenience method for success notifications.
func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

// TriggerErrorNotification is a convenience method for error notifications.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Render executes the named template into the body. A template failure
// turns the response into a 500 error fragment.
func (b *HTMXResponseBuilder) Render(t *template.Template, name string, data any) *HTMXResponseBuilder {
	var buf bytes.Buffer
	if t == nil {
		b.err = errors.New("templates not loaded")
		return b.Status(http.StatusInternalServerError).BodyHTML(errorFragment("Modelos não carregados"))
	}
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		b.err = fmt.Errorf("execute %s: %w", name, err)
		return b.Status(http.StatusInternalServerError).BodyHTML(errorFragment("Erro ao renderizar a página"))
	}
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = buf.Bytes()
	return b
}

// Err is the template failure of the last Render, if any.
func (b *HTMXResponseBuilder) Err() error {
	return b.err
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

func errorFragment(message string) string {
	return `<div class="error">` + template.HTMLEscapeString(message) + `</div>`
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(errorFragment(message))
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// UpstreamError is the 502 answer to a failed data API call, with an error toast.
func UpstreamError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadGateway, message).TriggerErrorNotification(message)
}

// Superseded tells htmx to keep whatever a newer request swapped in.
func Superseded() *HTMXResponseBuilder {
	return NewHTMXResponse().Status(http.StatusNoContent)
}
