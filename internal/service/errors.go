package service

import "errors"

var (
	ErrFollowSelf       = errors.New("cannot follow self")
	ErrInvalidUsername  = errors.New("username must be 3-20 chars of a-z, 0-9, underscore or dot")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrProfileExists    = errors.New("profile already exists")
	ErrInvalidStatus    = errors.New("status must be one of to_read, reading, read")
	ErrInvalidPaper     = errors.New("paper id and title are required")
	ErrAlreadyInLibrary = errors.New("paper already in library")
	ErrNotInLibrary     = errors.New("paper not in library")
	ErrPostNotFound     = errors.New("post not found")
	ErrUserNotFound     = errors.New("user not found")
)
