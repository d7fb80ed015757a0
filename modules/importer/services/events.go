package services

import (
	"github.com/folioworks/vitae/modules/importer/domain/session"
)

type SessionStagedEvent struct {
	Result session.ImportSession
}

type SessionCommittedEvent struct {
	Result session.CommitResult
}

type SessionDiscardedEvent struct {
	SessionID string
}

func NewSessionStagedEvent(result *session.ImportSession) *SessionStagedEvent {
	return &SessionStagedEvent{Result: *result}
}

func NewSessionCommittedEvent(result *session.CommitResult) *SessionCommittedEvent {
	return &SessionCommittedEvent{Result: *result}
}

func NewSessionDiscardedEvent(sessionID string) *SessionDiscardedEvent {
	return &SessionDiscardedEvent{SessionID: sessionID}
}
