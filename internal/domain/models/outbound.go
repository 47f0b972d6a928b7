package models

// OutboundMessageRequest is a text notification sent to a shop owner.
type OutboundMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}
