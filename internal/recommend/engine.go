// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coloratura-app/coloratura/internal/cache"
	"github.com/coloratura-app/coloratura/internal/metrics"
)

// Engine coordinates the strategy chain, the filter pipeline, and the
// ranking finalizer. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	strategies []Strategy

	users        UserDirectory
	interactions InteractionAccessor

	// cache holds personalized strategy results keyed by user and age
	// scope. Popularity results are never cached so the per-call jitter
	// stays fresh. Nil disables caching.
	cache cache.Cacher
}

// NewEngine creates an engine with no strategies registered. Register
// them in fallback order with RegisterStrategy.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetUserDirectory wires the profile lookup used to resolve UserID.
func (e *Engine) SetUserDirectory(d UserDirectory) {
	e.users = d
}

// SetInteractions wires the download log used by the exclude-downloaded
// filter. Strategies receive their own accessor at construction.
func (e *Engine) SetInteractions(a InteractionAccessor) {
	e.interactions = a
}

// SetCache enables result caching for personalized strategies.
func (e *Engine) SetCache(c cache.Cacher) {
	e.cache = c
}

// RegisterStrategy appends a strategy to the fallback chain. Order of
// registration is order of trial.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.strategies = append(e.strategies, s)
	e.logger.Info().
		Str("strategy", s.Name()).
		Bool("personalized", s.Personalized()).
		Msg("registered strategy")
}

// Recommend runs the full pipeline for one request: resolve the user,
// try strategies in order, filter, rank, truncate.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if err := e.prepareRequest(&req); err != nil {
		return nil, err
	}
	logger := e.requestLogger(&req)

	if e.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RequestTimeout)
		defer cancel()
	}

	if err := e.resolveUser(ctx, &req, logger); err != nil {
		return nil, err
	}

	result, err := e.selectCandidates(ctx, &req, logger)
	if err != nil {
		logger.Error().Msg("every strategy failed")
		return nil, err
	}

	kept := e.applyFilters(ctx, &req, result.Candidates, logger)
	items := finalize(kept, req.Limit)

	elapsed := time.Since(start)
	resp := &Response{
		Items:        items,
		StrategyUsed: result.Strategy,
		Confidence:   result.Confidence,
		Metadata: Metadata{
			TotalCandidates:  len(result.Candidates),
			ProcessingTimeMs: elapsed.Milliseconds(),
		},
	}

	metrics.RecordRecommendation(result.Strategy, len(result.Candidates), result.Confidence, elapsed)
	logger.Debug().
		Str("strategy", result.Strategy).
		Float64("confidence", result.Confidence).
		Int("candidates", len(result.Candidates)).
		Int("returned", len(items)).
		Int64("latency_ms", elapsed.Milliseconds()).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies the limit default and validates enum fields.
// Invalid requests are rejected here, before any strategy runs.
func (e *Engine) prepareRequest(req *Request) error {
	if err := req.Validate(e.config.MaxLimit); err != nil {
		return err
	}
	if req.Limit == 0 {
		req.Limit = e.config.DefaultLimit
	}
	return nil
}

func (e *Engine) requestLogger(req *Request) zerolog.Logger {
	logCtx := e.logger.With()
	if req.RequestID != "" {
		logCtx = logCtx.Str("request_id", req.RequestID)
	}
	if req.UserID != "" {
		logCtx = logCtx.Str("user_id", req.UserID)
	}
	return logCtx.Logger()
}

// resolveUser loads the profile behind req.UserID. A missing profile is
// a client error; a directory outage downgrades the request to the
// anonymous flow instead of failing it.
func (e *Engine) resolveUser(ctx context.Context, req *Request, logger zerolog.Logger) error {
	if req.UserID == "" || e.users == nil {
		return nil
	}

	user, err := e.users.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("resolve user %q: %w", req.UserID, err)
		}
		logger.Warn().Err(err).Msg("user directory unavailable, skipping personalized strategies")
		return nil
	}

	req.User = user
	return nil
}

// selectCandidates walks the strategy chain and returns the first
// non-empty result. Strategy errors are logged and skipped so
// personalization degrades instead of failing. A strategy that runs
// cleanly but finds nothing is not a failure: if the whole chain comes
// up empty without erroring, the last empty result is returned so the
// caller gets a normal, empty response under that strategy's label.
// ErrAllStrategiesExhausted is reserved for chains where every
// attempted strategy errored.
func (e *Engine) selectCandidates(ctx context.Context, req *Request, logger zerolog.Logger) (*Result, error) {
	var lastEmpty *Result
	for _, strat := range e.strategies {
		if strat.Personalized() && req.User == nil {
			continue
		}

		if result := e.cachedResult(req, strat); result != nil {
			metrics.RecordCacheHit("recommend")
			logger.Debug().Str("strategy", strat.Name()).Msg("strategy cache hit")
			return result, nil
		}

		result, err := strat.Generate(ctx, req)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("strategy", strat.Name()).
				Msg("strategy failed, falling back")
			metrics.RecordFallback(strat.Name(), "error")
			continue
		}
		if result == nil || len(result.Candidates) == 0 {
			logger.Debug().Str("strategy", strat.Name()).Msg("strategy produced no candidates")
			metrics.RecordFallback(strat.Name(), "empty")
			if result == nil {
				result = &Result{Strategy: strat.Name()}
			}
			lastEmpty = result
			continue
		}

		e.storeResult(req, strat, result)
		return result, nil
	}
	if lastEmpty != nil {
		return lastEmpty, nil
	}
	return nil, ErrAllStrategiesExhausted
}

// cacheKey covers exactly the inputs candidate generation depends on.
// Limit, preferences, and the exclude flag are post-processing concerns
// applied on every call, cached or not.
func (e *Engine) cacheKey(req *Request, strat Strategy) string {
	return cache.GenerateKey("recommend:"+strat.Name(), struct {
		UserID   string
		AgeGroup string
	}{req.UserID, string(req.AgeGroup)})
}

func (e *Engine) cachedResult(req *Request, strat Strategy) *Result {
	if e.cache == nil || !strat.Personalized() {
		return nil
	}

	entry, ok := e.cache.Get(e.cacheKey(req, strat))
	if !ok {
		metrics.RecordCacheMiss("recommend")
		return nil
	}
	cached, ok := entry.(*Result)
	if !ok {
		return nil
	}

	// Copy the candidate slice so the filter pipeline and finalizer of
	// one request never reorder another's cached view.
	candidates := make([]ScoredPage, len(cached.Candidates))
	copy(candidates, cached.Candidates)
	return &Result{
		Strategy:   cached.Strategy,
		Candidates: candidates,
		Confidence: cached.Confidence,
	}
}

func (e *Engine) storeResult(req *Request, strat Strategy, result *Result) {
	if e.cache == nil || !strat.Personalized() {
		return
	}
	e.cache.Set(e.cacheKey(req, strat), result)
}
