package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

type createRequest struct {
	Login     string `json:"login" binding:"required,login"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"personname"`
}

func TestToDetails_BindingErrors(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&createRequest{Login: "bad login", Email: "nope"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be 1 to 50 letters, digits, '.', '_' or '-'", details["login"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestToDetails_EntityErrors(t *testing.T) {
	err := (&entity.User{Login: "ok", Email: "nope"}).Validate()
	require.Error(t, err)

	assert.Equal(t, map[string]string{"email": "must be a valid email"}, ToDetails(err))
}

func TestToDetails_Fallback(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
