package http

import (
	"context"
	"errors"
	"net/http"

	"vibes/internal/api"
	"vibes/internal/core"
	"vibes/internal/log"
)

// pageData is what every full page template receives.
type pageData struct {
	Title  string
	Active string
	Data   any
}

type option struct {
	Value string
	Label string
}

var periodOptions = []option{
	{"all", "Todos"},
	{"today", "Hoje"},
	{"week", "Esta Semana"},
	{"month", "Este Mês"},
	{"year", "Este Ano"},
}

// errorType classifies a data API failure for logging.
func errorType(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return log.ErrorTypeTimeout
	case errors.Is(err, api.ErrNotFound):
		return log.ErrorTypeNotFound
	case errors.Is(err, api.ErrNoData):
		return log.ErrorTypeNoData
	case errors.Is(err, api.ErrInvalidRecord), errors.As(err, &se):
		return log.ErrorTypeUpstream
	default:
		return log.ErrorTypeNetwork
	}
}

// readFailed logs a failed view fetch. Reads are not retried; the view
// renders its empty fallback.
func (s *Server) readFailed(ctx context.Context, component, view string, err error) {
	s.appMetrics.upstreamErrors.Add(1)
	fields := log.NewFields().
		WithOperation(log.OpRead).
		WithError(err).
		WithErrorType(errorType(err))
	fields[log.FieldView] = view
	log.FromContext(ctx).WithComponent(component).ErrorContext(ctx, "View fetch failed", fields.ToSlice()...)
}

// mutationFailed logs a failed mutation and returns the status and toast
// message to answer with.
func (s *Server) mutationFailed(ctx context.Context, component, op string, err error) (int, string) {
	s.upstreamFailed(ctx, component, op, "Mutation failed", err)
	return failureStatus(err, "Erro ao salvar. Tente novamente.")
}

// recordFailed logs a failed single-record read behind an edit form or a
// delete confirmation and returns the status and toast message.
func (s *Server) recordFailed(ctx context.Context, component string, err error) (int, string) {
	s.upstreamFailed(ctx, component, log.OpRead, "Record fetch failed", err)
	return failureStatus(err, "Erro ao carregar. Tente novamente.")
}

func (s *Server) upstreamFailed(ctx context.Context, component, op, msg string, err error) {
	s.appMetrics.upstreamErrors.Add(1)
	fields := log.NewFields().
		WithOperation(op).
		WithError(err).
		WithErrorType(errorType(err))
	log.FromContext(ctx).WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}

func failureStatus(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, api.ErrNotFound) || api.IsStatus(err, http.StatusNotFound):
		return http.StatusNotFound, "Registro não encontrado"
	case api.IsStatus(err, http.StatusConflict):
		return http.StatusConflict, "Não é possível excluir: existem despesas nesta categoria"
	default:
		return http.StatusBadGateway, fallback
	}
}

// validationFailed counts and logs a form rejected before any data API call.
func (s *Server) validationFailed(ctx context.Context, component string, errs core.ValidationErrors) {
	s.appMetrics.validation.Add(1)
	log.FromContext(ctx).WithComponent(component).DebugContext(ctx, "Form rejected",
		log.FieldOperation, log.OpValidate,
		log.FieldErrorType, log.ErrorTypeValidation,
		log.FieldError, errs.Error())
}

func (s *Server) mutationSucceeded(ctx context.Context, component, op string, fields log.LogFields) {
	s.appMetrics.mutations.Add(1)
	fields = fields.WithOperation(op)
	log.FromContext(ctx).WithComponent(component).InfoContext(ctx, "Mutation applied", fields.ToSlice()...)
}
