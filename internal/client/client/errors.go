package client

import "errors"

var (
	ErrUnavailable  = errors.New("node unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("rejected by node")
)
