package http

import (
	"errors"
	"net/http"
	"strconv"

	"vibes/internal/core"
	"vibes/internal/filter"
	"vibes/internal/log"
	"vibes/internal/query"
	"vibes/internal/services"
)

// tableView feeds the expenses_table partial.
type tableView struct {
	List   services.ExpenseList
	Failed bool
}

// Label is the "Mostrando N de M resultados" caption.
func (v tableView) Label() string { return ResultsLabel(len(v.List.Rows), v.List.Total) }

type expensesPageView struct {
	Table   tableView
	Search  string
	Periods []option
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	m, _ := s.sessions.manager(w, r)
	table, ok := s.loadTable(w, r, m)
	if !ok {
		return
	}
	search := m.Pending()
	if search == "" {
		search = table.List.State.Search
	}
	s.render(w, r, http.StatusOK, "expenses.html", pageData{
		Title:  "Despesas",
		Active: "expenses",
		Data:   expensesPageView{Table: table, Search: search, Periods: periodOptions},
	})
}

// handleExpenseTable re-renders the table. A page parameter moves to that
// page without touching the filters.
func (s *Server) handleExpenseTable(w http.ResponseWriter, r *http.Request) {
	m, _ := s.sessions.manager(w, r)
	if n, ok := QueryPage(r.URL.Query()); ok {
		m.SetPage(n)
	}
	s.renderTable(w, r, m)
}

// handleExpenseSearch debounces keystrokes. Only the request carrying the
// last keystroke of a burst renders; earlier ones answer 204.
func (s *Server) handleExpenseSearch(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	m, _ := s.sessions.manager(w, r)

	select {
	case outcome := <-m.SetSearch(p.Get("search")):
		if outcome == filter.Superseded {
			s.appMetrics.superseded.Add(1)
			log.FromContext(r.Context()).WithComponent(log.ComponentFilter).DebugContext(r.Context(), "Search keystroke superseded",
				log.FieldOperation, log.OpSearch)
			Superseded().Write(w)
			return
		}
	case <-r.Context().Done():
		return
	}
	s.renderTable(w, r, m)
}

// handleExpenseFilter applies category and period selections immediately.
func (s *Server) handleExpenseFilter(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	m, _ := s.sessions.manager(w, r)
	if v := p.Get("category_id"); v != "" {
		if v != query.AllCategories {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				BadRequestError("Categoria inválida").Write(w)
				return
			}
		}
		m.SetCategory(v)
	}
	if v := p.Get("period"); v != "" {
		m.SetPeriod(query.ParsePeriod(v))
	}
	s.renderTable(w, r, m)
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, m *filter.Manager) {
	table, ok := s.loadTable(w, r, m)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "expenses_table", table)
}

// loadTable fetches the session's current page as a new fetch generation.
// It answers 204 itself and returns false when a newer fetch superseded it.
func (s *Server) loadTable(w http.ResponseWriter, r *http.Request, m *filter.Manager) (tableView, bool) {
	ctx, done := m.Begin(r.Context())
	defer done()

	st := m.State()
	list, err := s.lister.List(ctx, st)
	if err != nil {
		if ctx.Err() != nil && r.Context().Err() == nil {
			s.appMetrics.superseded.Add(1)
			Superseded().Write(w)
			return tableView{}, false
		}
		s.readFailed(r.Context(), log.ComponentExpense, "expenses_table", err)
		return tableView{List: services.ExpenseList{State: st, TotalPages: 1}, Failed: true}, true
	}
	if list.State.Page != st.Page {
		m.SetPage(list.State.Page)
	}

	fields := log.NewFields().
		WithOperation(log.OpList).
		WithFilter(st.Search, st.CategoryID, string(st.Period), list.State.Page)
	fields[log.FieldTotal] = list.Total
	log.FromContext(r.Context()).WithComponent(log.ComponentExpense).DebugContext(r.Context(), "Expense page listed", fields.ToSlice()...)
	return tableView{List: list}, true
}

// expenseFormView feeds the expense_form partial, for both create and edit.
type expenseFormView struct {
	ID         int64
	Values     FormValues
	Errors     core.ValidationErrors
	FormError  string
	Categories []core.Category
}

func (v expenseFormView) Edit() bool { return v.ID > 0 }

func expenseValues(e core.Expense) FormValues {
	return FormValues{
		"date":        e.Date.String(),
		"description": e.Description,
		"category_id": strconv.FormatInt(e.CategoryID, 10),
		"amount":      amountInput(e.Amount),
	}
}

func (s *Server) expenseForm(r *http.Request, id int64, values FormValues) expenseFormView {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		s.readFailed(r.Context(), log.ComponentCategory, "expense_form", err)
	}
	return expenseFormView{ID: id, Values: values, Categories: cats}
}

func (s *Server) handleExpenseForm(w http.ResponseWriter, r *http.Request) {
	values := FormValues{"date": core.DateOf(s.now()).String()}
	id, edit := QueryID(r.URL.Query())
	if edit {
		e, err := s.expenses.Get(r.Context(), id)
		if err != nil {
			status, msg := s.recordFailed(r.Context(), log.ComponentExpense, err)
			ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
			return
		}
		values = expenseValues(e)
	}
	s.render(w, r, http.StatusOK, "expense_form", s.expenseForm(r, id, values))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.saveExpense(w, r, 0)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	s.saveExpense(w, r, id)
}

// saveExpense creates (id == 0) or updates an expense. Invalid input is
// answered 422 with the form re-rendered and no data API call.
func (s *Server) saveExpense(w http.ResponseWriter, r *http.Request, id int64) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	in, values, errs := ParseExpenseForm(p)
	if errs != nil {
		s.validationFailed(r.Context(), log.ComponentExpense, errs)
		view := s.expenseForm(r, id, values)
		view.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	}

	op, message := log.OpCreate, "Despesa criada com sucesso"
	var err error
	if id > 0 {
		op, message = log.OpUpdate, "Despesa atualizada com sucesso"
		err = s.expenses.Update(r.Context(), id, in)
	} else {
		err = s.expenses.Create(r.Context(), in)
	}

	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		view := s.expenseForm(r, id, values)
		view.Errors = verrs
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	case err != nil:
		status, msg := s.mutationFailed(r.Context(), log.ComponentExpense, op, err)
		view := s.expenseForm(r, id, values)
		view.FormError = msg
		s.respond(w, r, NewHTMXResponse().
			Status(status).
			TriggerErrorNotification(msg).
			Render(s.templates, "expense_form", view))
		return
	}

	s.mutationSucceeded(r.Context(), log.ComponentExpense, op,
		log.NewFields().WithExpense(id, in.Amount.Cents, in.CategoryID))
	NewHTMXResponse().MutationSucceeded(message, EventExpensesRefresh).Write(w)
}

// confirmView feeds the delete confirmation modal.
type confirmView struct {
	Title     string
	Message   string
	DeleteURL string
}

func (s *Server) handleConfirmExpenseDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	e, err := s.expenses.Get(r.Context(), id)
	if err != nil {
		status, msg := s.recordFailed(r.Context(), log.ComponentExpense, err)
		ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "confirm", confirmView{
		Title:     "Confirmar Exclusão",
		Message:   `Tem certeza que deseja excluir a despesa "` + e.Description + `"? Esta ação não pode ser desfeita.`,
		DeleteURL: "/ui/expenses/" + strconv.FormatInt(id, 10),
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	if err := s.expenses.Delete(r.Context(), id); err != nil {
		status, msg := s.mutationFailed(r.Context(), log.ComponentExpense, log.OpDelete, err)
		ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
		return
	}
	s.mutationSucceeded(r.Context(), log.ComponentExpense, log.OpDelete,
		log.NewFields().WithExpense(id, 0, 0))
	NewHTMXResponse().MutationSucceeded("Despesa excluída com sucesso", EventExpensesRefresh).Write(w)
}
