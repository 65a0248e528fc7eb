package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	"github.com/oksasatya/go-follow-graph/internal/interface/middleware"
	"github.com/oksasatya/go-follow-graph/pkg/response"
	"github.com/oksasatya/go-follow-graph/pkg/validation"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Login     string `json:"login" binding:"required,login"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"personname"`
	LastName  string `json:"last_name" binding:"personname"`
	Gravatar  string `json:"gravatar" binding:"max=255"`
}

type updateUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"personname"`
	LastName  string `json:"last_name" binding:"personname"`
	Gravatar  string `json:"gravatar" binding:"max=255"`
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetUserByLogin(c.Request.Context(), c.Param("login"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Profile(c *gin.Context) {
	p, err := h.Svc.GetUserProfileByLogin(c.Request.Context(), c.Param("login"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if p == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *UserHandler) Followers(c *gin.Context) {
	logins, err := h.Svc.FollowersOf(c.Request.Context(), c.Param("login"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, logins, "followers", map[string]any{"count": len(logins)})
}

func (h *UserHandler) Friends(c *gin.Context) {
	edges, err := h.Svc.FriendshipsOf(c.Request.Context(), c.Param("login"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, edges, "friends", map[string]any{"count": len(edges)})
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		response.Error[any](c, http.StatusBadRequest, "invalid size", map[string]string{"size": "must be a positive integer"})
		return
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "search results", map[string]any{"count": len(users)})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := &entity.User{
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gravatar:  req.Gravatar,
	}
	if err := h.Svc.CreateUser(c.Request.Context(), u); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

// Update replaces the record of the authenticated user, creating it when absent.
func (h *UserHandler) Update(c *gin.Context) {
	login := c.Param("login")
	if login != c.GetString(middleware.CtxLoginKey) {
		response.Error[any](c, http.StatusForbidden, "cannot update another user", nil)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := &entity.User{
		Login:     login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gravatar:  req.Gravatar,
	}
	if err := h.Svc.UpdateUser(c.Request.Context(), u); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

