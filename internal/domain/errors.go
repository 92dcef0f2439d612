package domain

import "errors"

var (
	ErrEmptyInput       = errors.New("no text provided")
	ErrMalformedMessage = errors.New("malformed message frame")
)
