package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/session"
)

var errUnauthorized = errs.NewUnauthorizedError("sign in to use the admin API")

type routeHandlers struct {
	pageHandler    pageHandler
	adminHandler   adminHandler
	projectHandler projectHandler
	messageHandler messageHandler
	healthHandler  healthHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, views *renderer, guard *session.Guard, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		pageHandler:    newPageHandler(deps, views),
		adminHandler:   newAdminHandler(deps, views, guard),
		projectHandler: newProjectHandler(deps),
		messageHandler: newMessageHandler(deps),
		healthHandler:  healthHandler{responder: NewResponder(log.Logger), startupTime: startupTime},
	}
}

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
