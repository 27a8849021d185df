package service

import (
	"context"
	"encoding/json"
	"net/http"

	"admincore/internal/apperrors"
	"admincore/internal/model"
	"admincore/internal/repository"
	"admincore/pkg/pagination"
	"admincore/pkg/response"

	"github.com/sirupsen/logrus"
)

// Broadcaster publishes serialized events to connected admin clients.
// Implemented by the websocket hub; nil-safe via the service.
type Broadcaster interface {
	Publish(message []byte)
}

// ActivityEntry is what orchestrators hand over for recording.
type ActivityEntry struct {
	Module      string
	Description string
	Status      string
	Type        string
	Properties  map[string]interface{}
	ActorID     *uint
}

// ActivityService records orchestrator activity and serves the admin feed.
// Recording is best-effort: a failed log write never fails the operation
// that triggered it.
type ActivityService interface {
	Record(ctx context.Context, entry ActivityEntry)
	List(ctx context.Context, params pagination.Params) response.Envelope
}

type activityService struct {
	repo repository.ActivityRepository
	hub  Broadcaster
	log  *logrus.Logger
}

// NewActivityService returns a new instance of ActivityService. The hub may
// be nil when no live feed is wired (tests, CLI).
func NewActivityService(repo repository.ActivityRepository, hub Broadcaster, log *logrus.Logger) ActivityService {
	return &activityService{repo: repo, hub: hub, log: log}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	row := &model.ActivityLog{
		Module:      entry.Module,
		Description: entry.Description,
		Status:      entry.Status,
		Type:        entry.Type,
		Properties:  entry.Properties,
		CreatedBy:   entry.ActorID,
		UpdatedBy:   entry.ActorID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.log.WithError(err).WithField("module", entry.Module).Warn("activity log write failed")
		return
	}

	if s.hub != nil {
		if payload, err := json.Marshal(row); err == nil {
			s.hub.Publish(payload)
		}
	}
}

func (s *activityService) List(ctx context.Context, params pagination.Params) response.Envelope {
	logs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}
	return response.Success(http.StatusOK, "activity logs retrieved", map[string]interface{}{
		"items":        logs,
		"total":        total,
		"current_page": params.Page,
		"per_page":     params.PerPage,
	})
}
