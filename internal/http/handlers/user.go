package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /user/name
// body: { "first_name": "...", "last_name": "..." }
func (uh *UserHandler) ChangeName(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdateName(dbcFrom(c), req.FirstName, req.LastName)
	uh.respond(c, "change_name_failed", u, err)
}

// PATCH /user/theme
// body: { "preferred_theme": "light" | "dark" | "system" }
func (uh *UserHandler) ChangeTheme(c *gin.Context) {
	var req struct {
		PreferredTheme string `json:"preferred_theme"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdatePreferredTheme(dbcFrom(c), req.PreferredTheme)
	uh.respond(c, "change_theme_failed", u, err)
}

// PATCH /user/week
// body: { "current_week": 7 }
func (uh *UserHandler) ChangeWeek(c *gin.Context) {
	var req struct {
		CurrentWeek int `json:"current_week"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdateCurrentWeek(dbcFrom(c), req.CurrentWeek)
	uh.respond(c, "change_week_failed", u, err)
}

// PATCH /user/timezone
// body: { "timezone": "Australia/Sydney" }
func (uh *UserHandler) ChangeTimezone(c *gin.Context) {
	var req struct {
		Timezone string `json:"timezone"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdateTimezone(dbcFrom(c), req.Timezone)
	uh.respond(c, "change_timezone_failed", u, err)
}

func (uh *UserHandler) respond(c *gin.Context, code string, u *types.User, err error) {
	if err != nil {
		response.RespondServiceError(c, code, err)
		return
	}
	response.RespondOK(c, gin.H{"me": u})
}
