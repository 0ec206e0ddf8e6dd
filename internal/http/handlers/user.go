package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type UserHandler struct {
	log            *logger.Logger
	userService    services.UserService
	profileService services.ProfileService
}

func NewUserHandler(log *logger.Logger, userService services.UserService, profileService services.ProfileService) *UserHandler {
	return &UserHandler{
		log:            log.With("handler", "UserHandler"),
		userService:    userService,
		profileService: profileService,
	}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/profile
func (uh *UserHandler) Profile(c *gin.Context) {
	sum, err := uh.profileService.Profile(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, uh.log, err)
		return
	}
	response.RespondOK(c, sum)
}

// PATCH /api/profile
// body: { "first_name": "...", "last_name": "...", "phone": "..." }, all optional
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if !bindJSON(c, uh.log, &req) {
		return
	}
	u, err := uh.userService.UpdateProfile(c.Request.Context(), services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.RespondServiceError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"me": u})
}

// POST /api/profile/password
func (uh *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword  string `json:"old_password"`
		NewPassword1 string `json:"new_password1"`
		NewPassword2 string `json:"new_password2"`
	}
	if !bindJSON(c, uh.log, &req) {
		return
	}
	if err := uh.userService.ChangePassword(c.Request.Context(), services.ChangePasswordInput{
		OldPassword:  req.OldPassword,
		NewPassword1: req.NewPassword1,
		NewPassword2: req.NewPassword2,
	}); err != nil {
		response.RespondServiceError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
