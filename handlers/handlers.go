package handlers

import (
	"context"
	"net/http"

	"bate-papo/backend/models"

	"github.com/gorilla/mux"
)

// PresenceService 是 participants 與 status 路由需要的服務
type PresenceService interface {
	Join(ctx context.Context, req models.JoinRequest) error
	List(ctx context.Context) ([]models.Participant, error)
	Heartbeat(ctx context.Context, name string) error
}

// MessagingService 是 messages 路由需要的服務
type MessagingService interface {
	Post(ctx context.Context, author string, req models.MessageRequest) error
	List(ctx context.Context, requester string, limit int) ([]models.Message, error)
	Delete(ctx context.Context, requester, id string) error
	Update(ctx context.Context, requester, id string, req models.MessageRequest) error
}

// Handler 持有所有 HTTP 路由需要的服務
type Handler struct {
	presence  PresenceService
	messaging MessagingService
}

// New 建立 Handler
func New(presence PresenceService, messaging MessagingService) *Handler {
	return &Handler{presence: presence, messaging: messaging}
}

// Register 註冊所有 API 路由
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/participants", h.JoinParticipant).Methods(http.MethodPost)
	router.HandleFunc("/participants", h.ListParticipants).Methods(http.MethodGet)

	router.HandleFunc("/messages", h.PostMessage).Methods(http.MethodPost)
	router.HandleFunc("/messages", h.ListMessages).Methods(http.MethodGet)
	router.HandleFunc("/messages/{id}", h.DeleteMessage).Methods(http.MethodDelete)
	router.HandleFunc("/messages/{id}", h.UpdateMessage).Methods(http.MethodPut)

	router.HandleFunc("/status", h.Heartbeat).Methods(http.MethodPost)
}
