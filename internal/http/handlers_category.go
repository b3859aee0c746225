package http

import (
	"errors"
	"net/http"
	"strconv"

	"vibes/internal/core"
	"vibes/internal/log"
)

// DefaultCategoryColor pre-fills the colour of a new category.
const DefaultCategoryColor = "#FF6B6B"

type categoryListView struct {
	Categories []core.Category
	Failed     bool
}

func (s *Server) categoryList(r *http.Request) categoryListView {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		s.readFailed(r.Context(), log.ComponentCategory, "categories", err)
		return categoryListView{Failed: true}
	}
	return categoryListView{Categories: cats}
}

func (s *Server) handleCategoriesPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "categories.html", pageData{
		Title:  "Categorias",
		Active: "categories",
		Data:   s.categoryList(r),
	})
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "category_list", s.categoryList(r))
}

type categoryFormView struct {
	ID        int64
	Values    FormValues
	Errors    core.ValidationErrors
	FormError string
}

func (v categoryFormView) Edit() bool { return v.ID > 0 }

func categoryValues(c core.Category) FormValues {
	return FormValues{
		"name":   c.Name,
		"color":  c.Color,
		"budget": amountInput(c.Budget),
	}
}

func (s *Server) handleCategoryForm(w http.ResponseWriter, r *http.Request) {
	view := categoryFormView{Values: FormValues{"color": DefaultCategoryColor}}
	if id, ok := QueryID(r.URL.Query()); ok {
		c, err := s.categories.Get(r.Context(), id)
		if err != nil {
			status, msg := s.recordFailed(r.Context(), log.ComponentCategory, err)
			ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
			return
		}
		view = categoryFormView{ID: id, Values: categoryValues(c)}
	}
	s.render(w, r, http.StatusOK, "category_form", view)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	s.saveCategory(w, r, 0)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	s.saveCategory(w, r, id)
}

func (s *Server) saveCategory(w http.ResponseWriter, r *http.Request, id int64) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	in, values, errs := ParseCategoryForm(p)
	if errs != nil {
		s.validationFailed(r.Context(), log.ComponentCategory, errs)
		s.render(w, r, http.StatusUnprocessableEntity, "category_form", categoryFormView{ID: id, Values: values, Errors: errs})
		return
	}

	op, message := log.OpCreate, "Categoria criada com sucesso"
	var err error
	if id > 0 {
		op, message = log.OpUpdate, "Categoria atualizada com sucesso"
		err = s.categories.Update(r.Context(), id, in)
	} else {
		err = s.categories.Create(r.Context(), in)
	}

	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.render(w, r, http.StatusUnprocessableEntity, "category_form", categoryFormView{ID: id, Values: values, Errors: verrs})
		return
	case err != nil:
		status, msg := s.mutationFailed(r.Context(), log.ComponentCategory, op, err)
		s.respond(w, r, NewHTMXResponse().
			Status(status).
			TriggerErrorNotification(msg).
			Render(s.templates, "category_form", categoryFormView{ID: id, Values: values, FormError: msg}))
		return
	}

	fields := log.NewFields()
	fields[log.FieldCategoryID] = id
	s.mutationSucceeded(r.Context(), log.ComponentCategory, op, fields)
	NewHTMXResponse().MutationSucceeded(message, EventCategoriesRefresh).Write(w)
}

func (s *Server) handleConfirmCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	c, err := s.categories.Get(r.Context(), id)
	if err != nil {
		status, msg := s.recordFailed(r.Context(), log.ComponentCategory, err)
		ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "confirm", confirmView{
		Title:     "Confirmar Exclusão",
		Message:   `Tem certeza que deseja excluir a categoria "` + c.Name + `"? Esta ação não pode ser desfeita.`,
		DeleteURL: "/ui/categories/" + strconv.FormatInt(id, 10),
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequestError("Identificador inválido").Write(w)
		return
	}
	if err := s.categories.Delete(r.Context(), id); err != nil {
		status, msg := s.mutationFailed(r.Context(), log.ComponentCategory, log.OpDelete, err)
		ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
		return
	}
	fields := log.NewFields()
	fields[log.FieldCategoryID] = id
	s.mutationSucceeded(r.Context(), log.ComponentCategory, log.OpDelete, fields)
	// Expense rows show category badges, so both views refresh.
	NewHTMXResponse().
		MutationSucceeded("Categoria excluída com sucesso", EventCategoriesRefresh).
		TriggerExpensesRefresh().
		Write(w)
}
