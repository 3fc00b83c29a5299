package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/request"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

type UserHandler struct {
	Service domain.UserUsecase
	Builder *response.Builder
}

func NewUserHandler(svc domain.UserUsecase, b *response.Builder) *UserHandler {
	return &UserHandler{Service: svc, Builder: b}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.Service.Register(c.Request.Context(), req.ToDomain())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": token})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": token})
}

func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		renderError(c, domain.ErrUnauthorized)
		return
	}
	if err := h.Service.Logout(c.Request.Context(), claims); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out."})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req request.PasswordChange
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Service.ChangePassword(c.Request.Context(), middleware.UserID(c), req.NewPassword1, req.NewPassword2); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "New password has been saved."})
}

// Account serves GET /auth/user/.
func (h *UserHandler) Account(c *gin.Context) {
	u, err := h.Service.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&u))
}

// UpdateAccount serves PATCH /auth/user/, which may only rename the user.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req request.UserUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Service.UpdateUsername(c.Request.Context(), middleware.UserID(c), req.Username)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&u))
}

func (h *UserHandler) Fetch(c *gin.Context) {
	users, err := h.Service.Fetch(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Users(users))
}

func (h *UserHandler) Profile(c *gin.Context) {
	p, err := h.Service.GetProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Profile(&p))
}

// UpdateProfile reads a multipart form with optional display_name,
// description and avatar parts.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var upd domain.ProfileUpdate
	if v, ok := c.GetPostForm("display_name"); ok {
		upd.DisplayName = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		upd.Description = &v
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			renderError(c, err)
			return
		}
		defer f.Close()
		upd.Avatar = f
		upd.AvatarName = fh.Filename
	}

	u, err := h.Service.UpdateProfile(c.Request.Context(), middleware.UserID(c), upd)
	if err != nil {
		renderError(c, asFieldError("avatar", err))
		return
	}
	c.JSON(http.StatusOK, h.Builder.User(&u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), middleware.UserID(c)); err != nil {
		renderError(c, err)
		return
	}
	// the account is gone either way; Authenticate rejects its tokens from now on
	if claims, ok := middleware.ClaimsFrom(c); ok {
		if err := h.Service.Logout(c.Request.Context(), claims); err != nil {
			logrus.Warnf("failed to revoke token of deleted user %d: %v", claims.UserID, err)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.Service.Follow(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"details": "follow successful"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.Service.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
