package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/commerce-system/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /users/me.
//
// @Summary      Profile of the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicProfile
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	profile, err := h.service.GetMe(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
