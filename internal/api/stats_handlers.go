package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pagetrail/internal/service"
	"github.com/listenupapp/pagetrail/internal/stats"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Reading statistics",
		Tags:        []string{"Stats"},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHeatmap",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/heatmap",
		Summary:     "Activity heatmap",
		Description: "Returns daily reading intensity, oldest day first, ending today",
		Tags:        []string{"Stats"},
	}, s.handleGetHeatmap)
}

// StatsOutput wraps the dashboard summary.
type StatsOutput struct {
	Body stats.Summary
}

// HeatmapInput selects the calendar length.
type HeatmapInput struct {
	Days int `query:"days" minimum:"1" maximum:"366" default:"84" doc:"Number of days to return"`
}

// HeatmapOutput wraps the activity calendar.
type HeatmapOutput struct {
	Body service.HeatmapResult
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	return &StatsOutput{Body: s.services.Library.Stats(ctx)}, nil
}

func (s *Server) handleGetHeatmap(ctx context.Context, input *HeatmapInput) (*HeatmapOutput, error) {
	return &HeatmapOutput{Body: s.services.Library.Heatmap(ctx, input.Days)}, nil
}
