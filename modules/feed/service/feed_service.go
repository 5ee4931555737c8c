package service

import (
	"context"
	"strings"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/logger"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/feed/dto"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"
)

const (
	ContentType = "text/calendar; charset=utf-8"

	// Window exported to feeds, relative to now.
	feedLookback  = 30 * 24 * time.Hour
	feedLookahead = 180 * 24 * time.Hour
)

type CalendarLookup interface {
	GetPublicBySlug(ctx context.Context, slug string) (*calendarEntity.Calendar, *errors.AppError)
	OwnCalendar(ctx context.Context, rc *roleEntity.RequestContext) (*calendarEntity.Calendar, *errors.AppError)
}

type EventProjector interface {
	ProjectRange(ctx context.Context, cal *calendarEntity.Calendar, viewer roleEntity.Actor, start, end time.Time, eventType string) ([]visibility.EventView, *errors.AppError)
}

// ObjectStore is where published feeds are uploaded. It may be nil when
// storage is not configured.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
}

type FeedServiceInterface interface {
	PublicFeed(ctx context.Context, slug string) ([]byte, *errors.AppError)
	Publish(ctx context.Context, rc *roleEntity.RequestContext) (*dto.PublishResponse, *errors.AppError)
}

type FeedService struct {
	calendars CalendarLookup
	events    EventProjector
	store     ObjectStore
	prefix    string
	publicURL string
	now       func() time.Time
}

func NewFeedService(calendars CalendarLookup, events EventProjector, store ObjectStore, prefix, publicURL string) *FeedService {
	return &FeedService{
		calendars: calendars,
		events:    events,
		store:     store,
		prefix:    prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// render projects the feed window for an anonymous viewer, so feeds only
// ever carry public events and busy blocks.
func (s *FeedService) render(ctx context.Context, cal *calendarEntity.Calendar) ([]byte, int, *errors.AppError) {
	now := s.now()
	views, appErr := s.events.ProjectRange(ctx, cal, nil, now.Add(-feedLookback), now.Add(feedLookahead), "")
	if appErr != nil {
		return nil, 0, appErr
	}
	return RenderICS(cal, views, now), len(views), nil
}

func (s *FeedService) PublicFeed(ctx context.Context, slug string) ([]byte, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cal, appErr := s.calendars.GetPublicBySlug(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	body, _, appErr := s.render(ctx, cal)
	return body, appErr
}

func (s *FeedService) Publish(ctx context.Context, rc *roleEntity.RequestContext) (*dto.PublishResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if s.store == nil {
		return nil, errors.New(errors.ErrStateConflict, "Feed publishing is not configured")
	}

	cal, appErr := s.calendars.OwnCalendar(ctx, rc)
	if appErr != nil {
		return nil, appErr
	}
	if !cal.IsPublic {
		return nil, errors.New(errors.ErrStateConflict, "Make the calendar public before publishing its feed")
	}

	body, count, appErr := s.render(ctx, cal)
	if appErr != nil {
		return nil, appErr
	}

	url, err := s.store.Put(ctx, s.prefix+cal.Slug+".ics", ContentType, body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to publish feed", err)
	}

	logger.Info("FeedService:Publish", "calendar_id", cal.ID, "events", count, "url", url)

	resp := &dto.PublishResponse{
		Slug:        cal.Slug,
		ObjectURL:   url,
		EventCount:  count,
		PublishedAt: s.now(),
	}
	if s.publicURL != "" {
		resp.FeedURL = s.publicURL + "/api/v1/public/calendars/" + cal.Slug + "/feed.ics"
	}
	return resp, nil
}

var _ FeedServiceInterface = (*FeedService)(nil)
