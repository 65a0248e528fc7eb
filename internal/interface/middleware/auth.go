package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
	"github.com/oksasatya/go-follow-graph/pkg/response"
)

const CtxLoginKey = "login"

// Auth validates the access token from the Authorization bearer header or the
// access_token cookie. On success the login is set in the Gin context and on
// the request context, where application.ContextAuthenticator finds it.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		c.Set(CtxLoginKey, claims.Login)
		c.Request = c.Request.WithContext(application.WithLogin(c.Request.Context(), claims.Login))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie("access_token"); err == nil {
		return tok
	}
	return ""
}
