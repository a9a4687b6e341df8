// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"net/http"

	"github.com/coloratura-app/coloratura/internal/logging"
	"github.com/coloratura-app/coloratura/internal/newsletter"
)

// SubscribeRequest is the body of POST /api/v1/newsletter/subscribe.
type SubscribeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Language string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// SubscribeResponse confirms a subscription. The unsubscribe token is
// returned once here; digest messages reference it but the API never
// exposes it again.
type SubscribeResponse struct {
	Email            string `json:"email"`
	Status           string `json:"status"`
	UnsubscribeToken string `json:"unsubscribeToken"`
}

// UnsubscribeRequest is the body of POST /api/v1/newsletter/unsubscribe.
// The token requirement makes one-click links work while keeping
// third parties from unsubscribing arbitrary addresses.
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// NewsletterSubscribe handles POST /api/v1/newsletter/subscribe.
//
// @Summary Subscribe to the digest newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscription request"
// @Success 201 {object} APIResponse{data=SubscribeResponse}
// @Failure 400 {object} APIResponse
// @Router /api/v1/newsletter/subscribe [post]
func (h *Handler) NewsletterSubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondParamError(w, r, err)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, verr.Code, verr.Message, verr.Details)
		return
	}

	sub, err := h.newsletter.Subscribe(r.Context(), req.Email, req.Language)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("newsletter subscribe failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to subscribe")
		return
	}

	respondSuccess(w, r, http.StatusCreated, SubscribeResponse{
		Email:            sub.Email,
		Status:           string(sub.Status),
		UnsubscribeToken: sub.UnsubscribeToken,
	}, nil)
}

// NewsletterUnsubscribe handles POST /api/v1/newsletter/unsubscribe.
//
// @Summary Unsubscribe from the digest newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body UnsubscribeRequest true "Unsubscribe request"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/v1/newsletter/unsubscribe [post]
func (h *Handler) NewsletterUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req UnsubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondParamError(w, r, err)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, verr.Code, verr.Message, verr.Details)
		return
	}

	err := h.newsletter.Unsubscribe(r.Context(), req.Email, req.Token)
	switch {
	case err == nil:
		respondSuccess(w, r, http.StatusOK, map[string]interface{}{"unsubscribed": true}, nil)
	case errors.Is(err, newsletter.ErrNotSubscribed):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Email is not subscribed")
	case errors.Is(err, newsletter.ErrInvalidToken):
		// Same status as a wrong email so the endpoint cannot be used
		// to probe which addresses are subscribed.
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Email is not subscribed")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("newsletter unsubscribe failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to unsubscribe")
	}
}
