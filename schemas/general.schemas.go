package schemas

// MessageResponse carries a bare human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}
