package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	LoggerKey      ContextKey = "logger"
	RequestIDKey   ContextKey = "requestID"
	WorkspaceIDKey ContextKey = "workspaceID"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
