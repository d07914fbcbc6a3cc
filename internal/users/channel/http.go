// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the public channel profile endpoint.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Routes returns a [chi.Router] configured with the channel routes.
//
// # Endpoints
//   - GET /{userName} : Returns the public channel profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{userName}", handler.getProfile)
	return router
}

/*
GetProfile returns the public channel view behind a handle.

GET /api/v1/channels/{userName}

Description: Anonymous callers see the counters; authenticated callers
additionally learn whether they subscribe to the channel.

Response:
  - 200: Profile: The public channel view
  - 404: ErrNotFound: No channel behind the handle
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userName := requestutil.Param(request, "userName")

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := handler.channelService.GetProfile(request.Context(), userName, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
