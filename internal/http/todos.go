package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/domain"
	"todo-api/internal/service"
)

type createTodoRequest struct {
	Text any `json:"text"`
}

type TodoResponse struct {
	ID          string `json:"_id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
}

// ErrorResponse is the body returned alongside 400s on create and list.
type ErrorResponse struct {
	Name    string                       `json:"name"`
	Message string                       `json:"message"`
	Errors  map[string]domain.FieldError `json:"errors,omitempty"`
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	todo, err := h.todos.CreateTodo(c.Request.Context(), req.Text)
	if err != nil {
		h.log(c).WithError(err).Warn("create todo")
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, TodoToResponse(*todo))
}

func (h *Handler) listTodos(c *gin.Context) {
	todos, err := h.todos.ListTodos(c.Request.Context())
	if err != nil {
		h.log(c).WithError(err).Warn("list todos")
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	resp := make([]TodoResponse, len(todos))
	for i := range todos {
		resp[i] = TodoToResponse(todos[i])
	}
	c.JSON(http.StatusOK, gin.H{"todos": resp})
}

func (h *Handler) getTodo(c *gin.Context) {
	todo, err := h.todos.GetTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortTodoLookup(c, "get todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": TodoToResponse(*todo)})
}

func (h *Handler) removeTodo(c *gin.Context) {
	todo, err := h.todos.RemoveTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortTodoLookup(c, "remove todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": TodoToResponse(*todo)})
}

func (h *Handler) updateTodo(c *gin.Context) {
	id := c.Param("id")
	if !service.IsValidID(id) {
		c.Status(http.StatusNotFound)
		return
	}

	// any JSON value is accepted; only an object contributes fields
	var body any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.log(c).WithError(err).Warn("decode todo update")
			c.Status(http.StatusBadRequest)
			return
		}
	}
	payload, _ := body.(map[string]any)

	todo, err := h.todos.UpdateTodo(c.Request.Context(), id, payload)
	if err != nil {
		h.abortTodoLookup(c, "update todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": TodoToResponse(*todo)})
}

// abortTodoLookup answers a failed id-based operation with an empty body:
// 404 when nothing matched, 400 for anything else.
func (h *Handler) abortTodoLookup(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	h.log(c).WithError(err).Warn(op)
	c.Status(http.StatusBadRequest)
}

// TodoToResponse maps a todo onto its JSON representation.
func TodoToResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
	}
}

func errorResponse(err error) ErrorResponse {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp := ErrorResponse{
			Name:    "ValidationError",
			Message: verr.Error(),
			Errors:  make(map[string]domain.FieldError, len(verr.Fields)),
		}
		for _, f := range verr.Fields {
			resp.Errors[f.Path] = f
		}
		return resp
	}
	return ErrorResponse{Name: "StoreError", Message: err.Error()}
}

func bindErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Name: "ValidationError", Message: err.Error()}
}
