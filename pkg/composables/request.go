package composables

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/folioworks/vitae/pkg/constants"
)

// UseLogger returns the request-scoped logger from the context, falling back
// to the standard logger so library code never has to nil-check.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseWorkspaceID returns the workspace the request is scoped to.
// If no workspace was resolved, the second return value will be false.
func UseWorkspaceID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(constants.WorkspaceIDKey).(uuid.UUID)
	return id, ok
}

func WithWorkspaceID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.WorkspaceIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}
