package services

import "errors"

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrNotOwner      = errors.New("not the owner of this tag")
	ErrInvalidMode   = errors.New("invalid tag mode")
	ErrCodeExhausted = errors.New("could not allocate a unique tag code")
)
