package devapi

import "encoding/json"

type CreateMessageRequest struct {
	ToHandle     string `json:"to_handle" validate:"required"`
	Body         string `json:"body" validate:"required"`
	ScheduledFor string `json:"scheduled_for" validate:"required"`
}

// ClaimRequest is sent by a delivery gateway polling for work. DueBy
// defaults to now.
type ClaimRequest struct {
	GatewayID string `json:"gateway_id" validate:"required"`
	DueBy     string `json:"due_by"`
}

type ReportRequest struct {
	MessageID string          `json:"message_id" validate:"required"`
	Status    string          `json:"status" validate:"required,oneof=SENT DELIVERED RECEIVED FAILED"`
	Error     *string         `json:"error"`
	Detail    json.RawMessage `json:"detail"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
