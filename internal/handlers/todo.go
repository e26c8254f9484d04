package handlers

import (
	"net/http"
	"strconv"
	"time"

	"todo_api/internal/filter"
	"todo_api/internal/models"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

const msgTodoNotFound = "Todo not found"

// Request DTO for creating a todo.
type storeTodoRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	DueDate     *string `json:"due_date"`
}

// Request DTO for a partial update: absent fields are left untouched.
type updateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date"`
}

// @Summary      List todos
// @Description  Owner-scoped listing with optional filters. Unknown parameters are ignored; malformed dates and sort fields silently fall back instead of failing.
// @Tags         todos
// @Produce      json
// @Param        completed       query  string  false  "Filter by completion (1/true/on/yes are true)"
// @Param        search          query  string  false  "Case-insensitive substring match on title or description"
// @Param        due_date_from   query  string  false  "Due on or after this day"  example(2025-03-15)
// @Param        due_date_to     query  string  false  "Due on or before this day"  example(2025-03-31)
// @Param        sort_by         query  string  false  "Sort column"  Enums(id,title,completed,due_date,created_at,updated_at)
// @Param        sort_direction  query  string  false  "asc or desc (default desc)"
// @Param        per_page        query  int     false  "Page size (default 10)"
// @Param        page            query  int     false  "1-indexed page (default 1)"
// @Success      200  {object}  map[string]interface{}  "status, message, data, pagination"
// @Failure      401  {object}  map[string]string
// @Router       /api/todos [get]
// @Security     BearerAuth
func (h *Handler) listTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	params := filter.Params{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	q := service.ListQuery{
		Filters: params,
		PerPage: atoiOrZero(c.Query("per_page")),
		Page:    atoiOrZero(c.Query("page")),
		URL:     c.Request.URL,
	}

	todos, meta, err := h.services.Todos.List(c.Request.Context(), userID, q)
	if err != nil {
		h.serverError(c, "todos_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     true,
		"message":    "Todos retrieved successfully",
		"data":       todos,
		"pagination": meta,
	})
}

// @Summary      Create todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body  storeTodoRequest  true  "New todo"
// @Success      201  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/todos [post]
// @Security     BearerAuth
func (h *Handler) createTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var input storeTodoRequest
	if ok := h.bindJSON(c, &input); !ok {
		return
	}

	dueDate, ok := h.parseDueDate(c, input.DueDate)
	if !ok {
		return
	}

	todo, err := h.services.Todos.Create(c.Request.Context(), userID, service.CreateTodoInput{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		DueDate:     dueDate,
	})
	if err != nil {
		h.serverError(c, "todo_create_failed", err)
		return
	}
	respond(c, http.StatusCreated, "Todo created successfully", todo)
}

// @Summary      Get todo
// @Tags         todos
// @Produce      json
// @Param        id  path  int  true  "Todo id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/todos/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	id, ok := todoID(c)
	if !ok {
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	todo, err := h.services.Todos.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.serverError(c, "todo_get_failed", err)
		return
	}
	if todo == nil {
		// Same answer whether the todo is missing or owned by someone else.
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}
	respond(c, http.StatusOK, "Todo retrieved successfully", todo)
}

// @Summary      Update todo
// @Description  Partial update: only supplied fields change.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "Todo id"
// @Param        body  body  updateTodoRequest  true  "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/todos/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	id, ok := todoID(c)
	if !ok {
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	var input updateTodoRequest
	if ok := h.bindJSON(c, &input); !ok {
		return
	}

	upd := models.TodoUpdate{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}
	if input.DueDate != nil {
		dueDate, ok := h.parseDueDate(c, input.DueDate)
		if !ok {
			return
		}
		upd.DueDate = dueDate
	}

	todo, err := h.services.Todos.Update(c.Request.Context(), userID, id, upd)
	if err != nil {
		h.serverError(c, "todo_update_failed", err)
		return
	}
	if todo == nil {
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}
	respond(c, http.StatusOK, "Todo updated successfully", todo)
}

// @Summary      Delete todo
// @Tags         todos
// @Produce      json
// @Param        id  path  int  true  "Todo id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/todos/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	id, ok := todoID(c)
	if !ok {
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	deleted, err := h.services.Todos.Delete(c.Request.Context(), userID, id)
	if err != nil {
		h.serverError(c, "todo_delete_failed", err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}
	respondMessage(c, http.StatusOK, true, "Todo deleted successfully")
}

// parseDueDate validates a create/update due_date value. Unlike the listing
// filters, a malformed date in a write body is a validation error.
func (h *Handler) parseDueDate(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	d, ok := filter.ParseDate(*raw)
	if !ok {
		h.validationFailed(c, map[string]string{"due_date": "The due date must be a valid date"})
		return nil, false
	}
	return &d, true
}

func (h *Handler) serverError(c *gin.Context, logKey string, err error) {
	if h.log != nil {
		h.log.Errorw(logKey, "err", err)
	}
	respondError(c, http.StatusInternalServerError, "Something went wrong")
}

func todoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
