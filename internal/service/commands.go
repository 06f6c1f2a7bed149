package service

import "time"

// CreateMessageCommand carries user input for a new scheduled message.
// ScheduledFor is raw input; wall-clock values are read in Location, or in
// the local zone when Location is nil.
type CreateMessageCommand struct {
	ToHandle     string `validate:"notblank"`
	Body         string `validate:"notblank"`
	ScheduledFor string `validate:"notblank"`
	Location     *time.Location
}

// NewCreateMessageCommand builds a command for an already resolved instant.
func NewCreateMessageCommand(toHandle, body string, at time.Time) CreateMessageCommand {
	return CreateMessageCommand{
		ToHandle:     toHandle,
		Body:         body,
		ScheduledFor: at.UTC().Format(time.RFC3339Nano),
		Location:     time.UTC,
	}
}
