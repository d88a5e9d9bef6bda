package handler

import (
	"errors"
)

const (
	// APIPath is the root path of the JSON api.
	APIPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

// ErrNilACD is returned by Init when app, cfg or db is nil.
var ErrNilACD = errors.New(ErrNilACDFatalLogMsg)

// ErrorResponse is the JSON body of every failed api call.
type ErrorResponse struct {
	Error   bool     `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
