package models

// OutboundMessage is a text notification pushed to the station manager.
type OutboundMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}
