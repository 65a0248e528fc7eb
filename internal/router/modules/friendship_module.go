package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-follow-graph/internal/interface/http"
	"github.com/oksasatya/go-follow-graph/internal/interface/middleware"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
)

// FriendshipModule registers follow/forget for the authenticated user and the
// counter repair endpoint. Every route requires a valid access token.
type FriendshipModule struct {
	Handler *handlers.FriendshipHandler
	JWT     *helpers.JWTManager
}

func NewFriendshipModule(h *handlers.FriendshipHandler, jwt *helpers.JWTManager) *FriendshipModule {
	return &FriendshipModule{Handler: h, JWT: jwt}
}

func (m *FriendshipModule) Name() string { return "friendships" }

func (m *FriendshipModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/friendships/:login", m.Handler.Status)
		auth.POST("/friendships/:login", m.Handler.Follow)
		auth.DELETE("/friendships/:login", m.Handler.Forget)
		auth.POST("/counters/:login/reconcile", m.Handler.Reconcile)
	}
}
