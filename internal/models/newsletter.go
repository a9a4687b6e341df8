// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package models

import (
	"time"
)

// SubscriptionStatus is the lifecycle state of a newsletter subscription.
type SubscriptionStatus string

const (
	// SubscriptionActive receives digests.
	SubscriptionActive SubscriptionStatus = "active"

	// SubscriptionUnsubscribed opted out; the record is retained so
	// re-subscribing keeps history.
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// Subscription is a newsletter signup stored in the document store.
type Subscription struct {
	// Email is the normalized (lowercased, trimmed) subscriber address and
	// also the document key.
	Email string `json:"email"`

	// Status is the current opt-in state.
	Status SubscriptionStatus `json:"status"`

	// UnsubscribeToken authorizes one-click unsubscribe links.
	UnsubscribeToken string `json:"unsubscribeToken"`

	// Language is the subscriber's preferred digest language (BCP 47 tag).
	Language string `json:"language,omitempty"`

	// SubscribedAt is when the address first opted in.
	SubscribedAt time.Time `json:"subscribedAt"`

	// UnsubscribedAt is when the address opted out, if ever.
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}
