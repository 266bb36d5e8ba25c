package api

import (
	"github.com/placementcell/careerbot/internal/chatbot"
	"github.com/placementcell/careerbot/internal/session"
)

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty" validate:"omitempty,uuid"`
}

type ChatResponse struct {
	ConversationID string           `json:"conversation_id"`
	Reply          chatbot.Response `json:"reply"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type TopicsResponse struct {
	Topics []chatbot.Status `json:"topics"`
}

type ConversationsResponse struct {
	Conversations []session.Conversation `json:"conversations"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	codeInvalidJSON    = "invalid_json"
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeUnauthorized   = "unauthorized"
	codeInternal       = "internal"
)
