package schedulerapi

type CreateMessageRequest struct {
	ToHandle     string `json:"to_handle"`
	Body         string `json:"body"`
	ScheduledFor string `json:"scheduled_for"`
}
