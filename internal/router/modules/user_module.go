package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-follow-graph/internal/interface/http"
	"github.com/oksasatya/go-follow-graph/internal/interface/middleware"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
)

// UserModule wires user HTTP handlers into routes
// Public: GET /api/users/search, GET /api/users/:login{,/profile,/followers,/friends}, POST /api/users
// Protected: PUT /api/users/:login (own record only)
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("/search", m.Handler.Search)
	users.GET("/:login", m.Handler.Get)
	users.GET("/:login/profile", m.Handler.Profile)
	users.GET("/:login/followers", m.Handler.Followers)
	users.GET("/:login/friends", m.Handler.Friends)
	users.POST("", m.Handler.Create)

	users.PUT("/:login", middleware.Auth(m.JWT), m.Handler.Update)
}
