package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 30 * time.Second

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    services.ContactNotifier
}

func newContactHandler(contactRepo *database.ContactRepo, notifier services.ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

type contactInput struct {
	Nome     string `json:"nome" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,max=320"`
	Mensagem string `json:"mensagem" validate:"required,max=5000"`
}

type markReadInput struct {
	Lida *bool `json:"lida" validate:"required"`
}

// createContact stores a message from the contact form and notifies the owner in the background
// @Summary Send contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body contactInput true "Message"
// @Success 201 {object} ContactCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/contact [post]
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in contactInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message := models.ContactMessage{
			Nome:     strings.TrimSpace(in.Nome),
			Email:    strings.TrimSpace(in.Email),
			Mensagem: strings.TrimSpace(in.Mensagem),
		}
		if message.Nome == "" || message.Email == "" || message.Mensagem == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("nome, email and mensagem are required"))
			return
		}

		if err := h.contactRepo.Add(r.Context(), &message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "contact message", err))
			return
		}

		h.notify(r.Context(), message)

		h.responder.WriteJSON(w, http.StatusCreated, ContactCreatedResponse{
			Message: "Mensagem enviada com sucesso!",
			Data:    message,
		})
	}
}

// notify runs outside the request; a failure never changes the response.
func (h contactHandler) notify(ctx context.Context, message models.ContactMessage) {
	if h.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := h.notifier.NotifyContact(ctx, message); err != nil {
			h.logger.Warn().Err(err).Uint("messageID", message.ID).Msg("Contact notification failed")
		}
	}()
}

// listContacts returns every contact message, newest first
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ContactMessage
// @Router /api/contact [get]
func (h contactHandler) listContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.contactRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact messages", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, messages)
	}
}

// markContactRead sets the read flag of a message
// @Summary Mark contact message read or unread
// @Tags Contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param body body markReadInput true "Read flag"
// @Success 200 {object} models.ContactMessage
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/contact/{id} [patch]
func (h contactHandler) markContactRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in markReadInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.contactRepo.SetRead(r.Context(), id, *in.Lida)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contact message", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, message)
	}
}
