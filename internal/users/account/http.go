// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the HTTP endpoints of the authenticated user's profile.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the current-user profile endpoints.
//
// All routes require authentication.
//
// # Endpoints
//   - GET   /        : Returns the authenticated user's profile.
//   - PATCH /        : Updates fullName and/or email.
//   - PATCH /avatar  : Replaces the avatar image (multipart).
//   - PATCH /cover   : Replaces the cover image (multipart).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getProfile)
	router.Patch("/", handler.updateProfile)
	router.Patch("/avatar", handler.replaceAvatar)
	router.Patch("/cover", handler.replaceCover)

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

/*
GetProfile returns the authenticated user's own profile.

GET /api/v1/me

Response:
  - 200: User: The private profile view
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile applies partial changes to the authenticated user's profile.

PATCH /api/v1/me

Request:
  - Body: updateProfileRequest (FullName, Email; both optional)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.FullName != nil {
		validator.Required(auth.FieldFullName, *input.FullName).
			MaxLen(auth.FieldFullName, *input.FullName, 120)
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).
			Email(auth.FieldEmail, *input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ReplaceAvatar swaps the authenticated user's avatar image.

PATCH /api/v1/me/avatar

Request:
  - Form file: avatar (required)

Response:
  - 200: User: Profile with the new avatar URL
  - 400: ErrValidation: Missing file
  - 500: ErrUploadFailed: Storage upload exhausted its attempts
*/
func (handler *Handler) replaceAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := requestutil.RequiredTempFile(request, auth.FieldAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ReplaceAvatar(request.Context(), userID, path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ReplaceCover swaps the authenticated user's cover image.

PATCH /api/v1/me/cover

Request:
  - Form file: coverImage (required)

Response:
  - 200: User: Profile with the new cover URL
  - 400: ErrValidation: Missing file
  - 500: ErrUploadFailed: Storage upload exhausted its attempts
*/
func (handler *Handler) replaceCover(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := requestutil.RequiredTempFile(request, auth.FieldCoverImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ReplaceCover(request.Context(), userID, path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
