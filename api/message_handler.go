package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/admin"
	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/contact"
	"github.com/rpupo63/portfolio-site/errs"
)

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	client    backend.Client
	contact   *contact.Form
}

func newMessageHandler(deps Dependencies) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	opts := []contact.Option{contact.WithLogger(logger)}
	if deps.Notifier != nil {
		opts = append(opts, contact.WithNotifier(deps.Notifier))
	}

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		client:    deps.Client,
		contact:   contact.NewForm(deps.Client, opts...),
	}
}

// createMessage stores a contact form submission
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body contact.Fields true "Contact form"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Router /api/contact [post]
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields contact.Fields
		if err := decodeJSON(w, r, &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result := h.contact.Submit(r.Context(), fields)
		switch {
		case len(result.FieldErrors) > 0:
			h.responder.WriteError(w, errs.NewValidationError(result.FieldErrors))
		case !result.Succeeded():
			h.responder.WriteError(w, errs.NewDatabaseError("create", "contact message", result.Cause))
		default:
			h.responder.WriteJSONStatus(w, http.StatusCreated, ContactResponse{Status: "sent", Message: *result.Message})
		}
	}
}

// getAllMessages returns every contact message, newest first
// @Summary List contact messages
// @Tags Admin
// @Produce json
// @Success 200 {object} MessageCollection
// @Failure 401 {object} ErrorResponse
// @Router /api/admin/messages [get]
func (h messageHandler) getAllMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := admin.NewMessages(h.client, admin.WithLogger(h.logger)).List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageCollection{Messages: messages, Total: len(messages)})
	}
}

// deleteMessage deletes a contact message. The caller confirms with ?confirm=true.
// @Summary Delete contact message
// @Tags Admin
// @Param messageID path string true "Message ID" format(uuid)
// @Param confirm query bool true "Confirm the deletion"
// @Success 204
// @Failure 400 {object} ErrorResponse "Bad Request - Not confirmed"
// @Failure 404 {object} ErrorResponse "Not Found - Message not found"
// @Router /api/admin/messages/{messageID} [delete]
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := uuidParam(r, "messageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := admin.NewMessages(h.client, admin.WithLogger(h.logger)).Delete(r.Context(), messageID, queryConfirmed(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
