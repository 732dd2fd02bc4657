package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/assetdesk/backend/internal/domain/audit"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const maxPageSize = 100

// ListFilter holds the audit listing query
type ListFilter struct {
	EventType     string `form:"event_type"`
	AggregateType string `form:"aggregate_type"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PerPage       int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// EntryResponse is one audit log entry
type EntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Service reads the audit log
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit Service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List lists the team's entries, newest first
func (s *Service) List(ctx context.Context, teamID uuid.UUID, filter ListFilter) ([]EntryResponse, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PerPage,
	}.Normalize(maxPageSize)
	if filter.EventType != "" {
		domainFilter = domainFilter.Where("event_type", filter.EventType)
	}
	if filter.AggregateType != "" {
		domainFilter = domainFilter.Where("aggregate_type", filter.AggregateType)
	}

	entries, err := s.repo.FindForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

// History lists the entries of one aggregate, oldest first
func (s *Service) History(ctx context.Context, teamID uuid.UUID, aggregateType string, aggregateID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.repo.FindByAggregate(ctx, teamID, aggregateType, aggregateID)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

func toResponses(entries []audit.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = EntryResponse{
			ID:            e.ID,
			EventType:     e.EventType,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			Payload:       e.Payload,
			OccurredAt:    e.OccurredAt,
		}
	}
	return responses
}
