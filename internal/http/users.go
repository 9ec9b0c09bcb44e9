package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/domain"
	"todo-api/internal/service"
)

type registerUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log(c).WithError(err).Warn("register user")
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Name: "DuplicateKeyError", Message: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	c.Header(HeaderAuth, token)
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) currentUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}
