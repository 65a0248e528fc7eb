package entity

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrConflict        = errors.New("login already taken")
	ErrInvalidUser     = errors.New("invalid user")
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrEdgeBusy        = errors.New("edge is being written by another request")
)
