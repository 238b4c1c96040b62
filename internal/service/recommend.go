package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/manhuaapp/manhua-server/internal/config"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/ratelimit"
)

// recommendFallback is returned whenever the generation API cannot answer.
// Readers see a polite shrug instead of an error page.
const recommendFallback = "ببورە، ناتوانم لە ئێستادا پێشنیار بکەم."

// RecommendationService asks a text-generation API for reading suggestions
// on a free-text topic. The endpoint costs money per call, so requests are
// rate-limited per account.
type RecommendationService struct {
	http    *resty.Client
	apiKey  string
	model   string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewRecommendationService creates the service from configuration.
func NewRecommendationService(cfg config.RecommendConfig, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		http:    resty.New().SetBaseURL(cfg.BaseURL),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: ratelimit.New(cfg.RPS, cfg.Burst),
		logger:  logger,
	}
}

// RecommendRequest carries the reader's topic.
type RecommendRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
}

// generateContentRequest is the generation API's wire shape.
type generateContentRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

// generateContentResponse is the subset of the API response we read.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recommend returns free-text suggestions for the topic. Every failure of
// the upstream API, including a missing key, degrades to the fixed fallback
// string rather than an error. Only the rate limit is surfaced.
func (s *RecommendationService) Recommend(ctx context.Context, accountID string, req RecommendRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", formatValidationError(err)
	}

	if !s.limiter.Allow(accountID) {
		return "", domainerrors.RateLimited("too many recommendation requests, try again later")
	}

	if s.apiKey == "" {
		s.logger.Warn("recommendation API key not configured")
		return recommendFallback, nil
	}

	prompt := fmt.Sprintf(
		"بەکارهێنەر دەیەوێت مانھوایەک بخوێنێتەوە دەربارەی: %s. تکایە ٣ پێشنیار بدە بە کوردی بە کورت و کورتی.",
		req.Topic,
	)

	var result generateContentResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(generateContentRequest{
			Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", s.model))
	if err != nil {
		s.logger.Warn("recommendation request failed", "error", err)
		return recommendFallback, nil
	}
	if resp.IsError() {
		s.logger.Warn("recommendation request rejected", "status", resp.StatusCode())
		return recommendFallback, nil
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		s.logger.Warn("recommendation response empty")
		return recommendFallback, nil
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return recommendFallback, nil
	}
	return text, nil
}
