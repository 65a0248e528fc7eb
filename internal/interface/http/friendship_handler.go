package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/internal/interface/middleware"
	"github.com/oksasatya/go-follow-graph/pkg/response"
)

// FriendshipHandler exposes follow and forget for the authenticated user.
type FriendshipHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewFriendshipHandler(svc *application.Service, logger *logrus.Logger) *FriendshipHandler {
	return &FriendshipHandler{Svc: svc, Logger: logger}
}

type friendshipStatus struct {
	Follower  string `json:"follower"`
	Followed  string `json:"followed"`
	Following bool   `json:"following"`
}

func (h *FriendshipHandler) Follow(c *gin.Context) {
	target := c.Param("login")
	if err := h.Svc.FollowUser(c.Request.Context(), target); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friendshipStatus{
		Follower: c.GetString(middleware.CtxLoginKey), Followed: target, Following: true,
	}, "following", nil)
}

func (h *FriendshipHandler) Forget(c *gin.Context) {
	target := c.Param("login")
	if err := h.Svc.ForgetUser(c.Request.Context(), target); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friendshipStatus{
		Follower: c.GetString(middleware.CtxLoginKey), Followed: target, Following: false,
	}, "not following", nil)
}

func (h *FriendshipHandler) Status(c *gin.Context) {
	me, target := c.GetString(middleware.CtxLoginKey), c.Param("login")
	ok, err := h.Svc.IsFollowing(c.Request.Context(), me, target)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friendshipStatus{Follower: me, Followed: target, Following: ok}, "friendship", nil)
}

// Reconcile rebuilds the counters of a login from its edges.
func (h *FriendshipHandler) Reconcile(c *gin.Context) {
	counters, err := h.Svc.ReconcileCounters(c.Request.Context(), c.Param("login"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"login": c.Param("login"),
		"by":    c.GetString(middleware.CtxLoginKey),
	}).Info("counters reconciled on request")
	response.Success(c, http.StatusOK, counters, "counters reconciled", nil)
}
