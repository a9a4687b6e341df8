// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/coloratura-app/coloratura/internal/models"
)

// Strategy identifiers reported in Response.StrategyUsed.
const (
	// StrategyCollaborative marks results built from overlapping download
	// histories of similar users.
	StrategyCollaborative = "collaborative_filtering"

	// StrategyContentBased marks results built from keyword and difficulty
	// affinity with the user's own downloads.
	StrategyContentBased = "content_based"

	// StrategyHybrid marks popularity-ranked fallback results, either
	// global or scoped to a known user's age group.
	StrategyHybrid = "hybrid"

	// StrategyAgePopularity marks the age-scoped popularity variant used
	// for anonymous requests that carry an explicit age group.
	StrategyAgePopularity = "age_based_popularity"
)

var (
	// ErrInvalidRequest is returned before any strategy runs when the
	// request carries a malformed limit or unknown enum values.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUserNotFound is returned when a personalized request names a
	// user the directory has no record of. UserDirectory implementations
	// must return it, possibly wrapped, for missing profiles.
	ErrUserNotFound = errors.New("user profile not found")

	// ErrAllStrategiesExhausted is returned when every attempted
	// strategy, including the popularity fallback, failed with an
	// error. It indicates the catalog is unreachable. A chain that
	// runs cleanly but finds nothing is not exhaustion; it yields a
	// normal response with no items.
	ErrAllStrategiesExhausted = errors.New("all recommendation strategies exhausted")
)

// CatalogAccessor is the read-only view of the content catalog the
// strategies consume. *catalog.Store satisfies it.
type CatalogAccessor interface {
	// GetPages resolves page records by id. Unknown ids are skipped.
	GetPages(ctx context.Context, ids []string) ([]models.ColoringPage, error)

	// PagesByKeywords returns pages in the age group whose keyword set
	// overlaps keywords, excluding excludeIDs. Empty age group means any
	// tier; an empty keyword list matches nothing.
	PagesByKeywords(ctx context.Context, ageGroup models.AgeGroup, keywords, excludeIDs []string) ([]models.ColoringPage, error)

	// TopPagesByDownloads returns the most-downloaded pages, optionally
	// scoped to one age group.
	TopPagesByDownloads(ctx context.Context, ageGroup models.AgeGroup, limit int) ([]models.ColoringPage, error)
}

// InteractionAccessor is the read-only view of the download log.
// *database.DB satisfies it.
type InteractionAccessor interface {
	// GetDownloadsByUser returns the distinct page ids a user has
	// downloaded, most recent first.
	GetDownloadsByUser(ctx context.Context, userID string) ([]string, error)

	// GetDownloadersByPage returns the distinct user ids that downloaded
	// a page.
	GetDownloadersByPage(ctx context.Context, pageID string) ([]string, error)
}

// UserDirectory resolves user profiles for personalized requests.
// Implementations return ErrUserNotFound (possibly wrapped) for unknown
// ids so the engine can distinguish a missing profile from an outage.
type UserDirectory interface {
	Get(ctx context.Context, id string) (*models.UserProfile, error)
}

// Request describes one recommendation call. The zero value is not
// usable directly; the engine applies defaults and validates before any
// strategy runs.
type Request struct {
	// UserID is the authenticated caller, resolved from the session by
	// the HTTP layer. Empty for anonymous requests.
	UserID string `json:"userId,omitempty"`

	// AgeGroup is an explicit audience override. When set it wins over
	// the profile's declared age group.
	AgeGroup models.AgeGroup `json:"ageGroup,omitempty"`

	// Limit caps the number of returned items. Zero means the configured
	// default.
	Limit int `json:"limit,omitempty"`

	// ExcludeDownloaded removes items from the user's download history
	// from the final result, using a fresh history lookup.
	ExcludeDownloaded bool `json:"excludeDownloaded,omitempty"`

	// Preferences are explicit content constraints applied after
	// candidate generation. Nil means unconstrained.
	Preferences *models.Preferences `json:"preferences,omitempty"`

	// RequestID is carried into log lines for tracing. Optional.
	RequestID string `json:"-"`

	// User is the resolved profile for UserID. The engine populates it
	// before strategies run; strategies and external callers treat it as
	// read-only. Nil for anonymous or unresolvable users.
	User *models.UserProfile `json:"-"`
}

// TargetAgeGroup returns the audience scope for this request: the
// explicit override when present, else the resolved profile's declared
// group. Empty means unscoped.
func (r *Request) TargetAgeGroup() models.AgeGroup {
	if r.AgeGroup != "" {
		return r.AgeGroup
	}
	if r.User != nil {
		return r.User.AgeGroup
	}
	return ""
}

// Validate checks enum fields and the limit bound. The limit default is
// applied separately so callers can distinguish "unset" from "invalid".
func (r *Request) Validate(maxLimit int) error {
	if r.Limit < 0 || r.Limit > maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidRequest, maxLimit, r.Limit)
	}
	if r.AgeGroup != "" && !models.IsValidAgeGroup(r.AgeGroup) {
		return fmt.Errorf("%w: unknown age group %q", ErrInvalidRequest, r.AgeGroup)
	}
	if r.Preferences != nil {
		for _, d := range r.Preferences.Difficulties {
			if !models.IsValidDifficulty(d) {
				return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, d)
			}
		}
	}
	return nil
}

// ScoredPage pairs a candidate page with its generator-assigned score.
// Scores are strategy-internal and never serialized to callers.
type ScoredPage struct {
	Page  models.ColoringPage
	Score float64
}

// Result is the raw output of one strategy before filtering and ranking.
type Result struct {
	// Strategy is the identifier reported to the caller. The popularity
	// strategy varies it by request shape, so it may differ from the
	// generating strategy's Name.
	Strategy string

	// Candidates is the unfiltered candidate set.
	Candidates []ScoredPage

	// Confidence is the strategy's own evidence estimate in [0,1]. The
	// engine passes it through unchanged.
	Confidence float64
}

// Strategy is one candidate generator in the fallback chain.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Personalized reports whether the strategy needs a resolved user
	// profile. The engine skips personalized strategies for anonymous
	// requests.
	Personalized() bool

	// Generate produces candidates and a confidence estimate. Returning
	// an error or an empty candidate set makes the engine fall through
	// to the next strategy.
	Generate(ctx context.Context, req *Request) (*Result, error)
}

// Metadata is the diagnostics block attached to every response.
type Metadata struct {
	// TotalCandidates counts the selected strategy's output before
	// filtering and truncation.
	TotalCandidates int `json:"totalCandidates"`

	// ProcessingTimeMs is the end-to-end engine latency.
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// Response is the finished recommendation set.
type Response struct {
	// Items is the ranked result, duplicate-free, at most Limit long,
	// with internal scores stripped.
	Items []models.ColoringPage `json:"items"`

	// StrategyUsed names the strategy that produced the candidates.
	StrategyUsed string `json:"strategyUsed"`

	// Confidence is the producing strategy's evidence estimate in [0,1].
	Confidence float64 `json:"confidence"`

	Metadata Metadata `json:"metadata"`
}
