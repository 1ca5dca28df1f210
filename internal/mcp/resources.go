// ABOUTME: MCP resource implementations for the training coach.
// ABOUTME: Provides trainer://records, trainer://stats, and trainer://progress/week resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/trainer/internal/progress"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recordsURI      = "trainer://records"
	statsURI        = "trainer://stats"
	weekProgressURI = "trainer://progress/week"

	resourceRecordLimit = 20
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recordsURI,
		Name:        "Personal Records",
		Description: "Most recently achieved personal records",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "Training Stats",
		Description: "Workout streak, total workouts, last workout, and recent records",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         weekProgressURI,
		Name:        "This Week's Progress",
		Description: "Progress summary for the current week compared with last week",
		MIMEType:    "application/json",
	}, s.handleWeekProgressResource)
}

// Resource handlers

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	recs, err := s.svc.Records(ctx, s.userID, "", resourceRecordLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return jsonResource(recordsURI, map[string]any{
		"user":    s.userID,
		"records": recs,
		"count":   len(recs),
	})
}

func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	stats, err := s.svc.Stats(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	recent, err := s.svc.RecentRecords(ctx, s.userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent records: %w", err)
	}

	return jsonResource(statsURI, map[string]any{
		"user":           s.userID,
		"streak":         stats.Streak,
		"total_workouts": stats.TotalWorkouts,
		"last_workout":   stats.LastWorkout,
		"recent_records": recent,
	})
}

func (s *Server) handleWeekProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summary, err := s.svc.Progress(ctx, s.userID, progress.TimeframeWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize progress: %w", err)
	}
	return jsonResource(weekProgressURI, summary)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
