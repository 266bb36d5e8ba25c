package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placementcell/careerbot/internal/chatbot"
	"github.com/placementcell/careerbot/internal/logger"
	"github.com/placementcell/careerbot/internal/session"
)

var validate = validator.New()

// Responder answers utterances. *chatbot.Dispatcher implements it.
type Responder interface {
	Generate(utterance string) chatbot.Response
	RandomSuggestions() []string
	Describe() []chatbot.Status
}

type Handler struct {
	Bot            Responder
	Sessions       *session.Store
	Logger         *zap.Logger
	UtteranceLimit int
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("POST /v1/chat", h.Chat)
	mux.HandleFunc("GET /v1/suggestions", h.Suggestions)
	mux.HandleFunc("GET /v1/topics", h.Topics)
	mux.HandleFunc("GET /v1/conversations", h.ListConversations)
	mux.HandleFunc("GET /v1/conversations/{id}", h.GetConversation)
	mux.HandleFunc("DELETE /v1/conversations/{id}", h.DeleteConversation)
	return mux
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	var req ChatRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		log.Debug("decoding chat request", zap.Error(err))
		respondError(w, http.StatusBadRequest, codeInvalidJSON)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Debug("validating chat request", zap.Error(err))
		respondError(w, http.StatusBadRequest, codeInvalidRequest)
		return
	}

	reply := h.Bot.Generate(req.Message)

	conv, err := h.Sessions.Append(req.ConversationID,
		session.Message{Role: session.RoleUser, Content: req.Message},
		session.Message{Role: session.RoleAssistant, Content: reply.Content, Topic: reply.Topic, Suggestions: reply.Suggestions},
	)
	if errors.Is(err, session.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound)
		return
	}
	if err != nil {
		log.Error("storing conversation", zap.Error(err))
		respondError(w, http.StatusInternalServerError, codeInternal)
		return
	}

	fields := append(logger.UtteranceFields(req.Message, h.UtteranceLimit),
		logger.AnswerFields(reply.Topic, reply.Variant, len(reply.Suggestions))...)
	fields = append(fields,
		zap.String(logger.FieldConversationID, conv.ID),
		zap.String(logger.FieldLanguage, detectLanguage(req.Message)),
	)
	log.Info("answered", fields...)

	respondJSON(w, http.StatusOK, ChatResponse{ConversationID: conv.ID, Reply: reply})
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: h.Bot.RandomSuggestions()})
}

func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TopicsResponse{Topics: h.Bot.Describe()})
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConversationsResponse{Conversations: h.Sessions.List()})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound)
		return
	}
	respondJSON(w, http.StatusOK, conv)
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.PathValue("id")); err != nil {
		respondError(w, http.StatusNotFound, codeNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	return logger.WithFields(h.Logger, logger.StringFields(
		logger.StringField{Key: logger.FieldRequestID, Value: RequestIDFromContext(r.Context())},
	)...)
}

// detectLanguage is a hint for the logs only; it never changes the answer.
func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return whatlanggo.Detect(text).Lang.Iso6391()
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		zap.L().Warn("encoding response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, ErrorResponse{Error: code})
}
