package services

import "errors"

var (
	ErrBadCreds      = errors.New("invalid username or password")
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)
