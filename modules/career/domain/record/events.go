package record

type CreatedEvent struct {
	Result Record
}

type UpdatedEvent struct {
	Result Record
}

type DeletedEvent struct {
	Result Record
}

func NewCreatedEvent(result Record) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result Record) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(result Record) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
