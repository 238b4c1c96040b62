package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/service"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations",
		Summary:     "Get reading suggestions",
		Description: "Asks the recommendation service for suggestions on a free-text topic. Rate limited per account.",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRecommend)
}

// RecommendRequest carries the reader's topic.
type RecommendRequest struct {
	Topic string `json:"topic" validate:"required,max=500" doc:"What the reader wants to read about"`
}

// RecommendInput wraps the recommendation request for Huma.
type RecommendInput struct {
	Body RecommendRequest
}

// RecommendResponse contains the suggestion text.
type RecommendResponse struct {
	Text string `json:"text" doc:"Free-text suggestions"`
}

// RecommendOutput wraps the recommendation response for Huma.
type RecommendOutput struct {
	Body RecommendResponse
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	text, err := s.services.Recommend.Recommend(ctx, accountID, service.RecommendRequest{
		Topic: input.Body.Topic,
	})
	if err != nil {
		return nil, err
	}
	return &RecommendOutput{Body: RecommendResponse{Text: text}}, nil
}
