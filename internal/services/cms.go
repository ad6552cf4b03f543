package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/claireundgeorge/accessible-site/internal/clients/cms"
	"github.com/claireundgeorge/accessible-site/internal/data/repos"
	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
	"github.com/claireundgeorge/accessible-site/internal/pkg/dbctx"
	perrors "github.com/claireundgeorge/accessible-site/internal/pkg/errors"
	"github.com/claireundgeorge/accessible-site/internal/platform/apierr"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

const dashboardWindow = 30 * 24 * time.Hour

// CategoryOption is one entry of the CMS category picker.
type CategoryOption struct {
	ID                 pdomain.Category `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	BackendTag         string           `json:"backend_tag,omitempty"`
	BackendDescription string           `json:"backend_description,omitempty"`
	// Regenerable reports whether the backend can adapt content for it.
	Regenerable bool `json:"regenerable"`
}

type CategoryList struct {
	Source     string           `json:"source"`
	Categories []CategoryOption `json:"categories"`
}

type Dashboard struct {
	Hotels        int                   `json:"hotels"`
	Tours         int                   `json:"tours"`
	CareServices  int                   `json:"care_services"`
	PersonaCounts []repos.CategoryCount `json:"persona_counts"`
	Since         time.Time             `json:"since"`
}

type CMSService interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	Categories(ctx context.Context) CategoryList
	ContentModels(ctx context.Context) (map[string]cms.ContentModel, error)
	List(ctx context.Context, t cms.ContentType) ([]cms.Summary, error)
	Get(ctx context.Context, t cms.ContentType, id int64, rawCategory string) (any, error)
	CreateHotel(ctx context.Context, in cms.HotelContent) (int64, error)
	CreateTour(ctx context.Context, in cms.TourContent) (int64, error)
	CreateCareService(ctx context.Context, in cms.CareServiceContent) (int64, error)
	Validate(ctx context.Context, t cms.ContentType, body map[string]any) (cms.Validated, error)
	Regenerate(ctx context.Context, t cms.ContentType, id int64, rawCategory string) (cms.Regenerated, error)
}

type cmsService struct {
	log    *logger.Logger
	client cms.Client
	events repos.ChoiceEventRepo
	now    func() time.Time
}

// NewCMSService wires the backend client. events may be nil when no
// analytics database is configured.
func NewCMSService(log *logger.Logger, client cms.Client, events repos.ChoiceEventRepo) CMSService {
	return &cmsService{
		log:    log.With("service", "CMSService"),
		client: client,
		events: events,
		now:    time.Now,
	}
}

func (s *cmsService) Dashboard(ctx context.Context) (Dashboard, error) {
	out := Dashboard{Since: s.now().Add(-dashboardWindow).UTC(), PersonaCounts: []repos.CategoryCount{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.client.ListHotels(gctx)
		out.Hotels = len(rows)
		return err
	})
	g.Go(func() error {
		rows, err := s.client.ListTours(gctx)
		out.Tours = len(rows)
		return err
	})
	g.Go(func() error {
		rows, err := s.client.ListCareServices(gctx)
		out.CareServices = len(rows)
		return err
	})
	if s.events != nil {
		g.Go(func() error {
			counts, err := s.events.CountByCategory(dbctx.Context{Ctx: gctx}, out.Since)
			if err != nil {
				// Stats are secondary to the listing counts.
				s.log.Warn("Failed to count persona choices", "error", err)
				return nil
			}
			out.PersonaCounts = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, s.upstream("dashboard", err)
	}
	return out, nil
}

// Categories merges the backend's disability types into the local table.
// When the backend cannot be reached the local table is returned alone.
func (s *cmsService) Categories(ctx context.Context) CategoryList {
	local := pdomain.Infos()
	out := CategoryList{Source: "local", Categories: make([]CategoryOption, 0, len(local))}
	for _, info := range local {
		out.Categories = append(out.Categories, CategoryOption{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			BackendTag:  info.BackendTag,
			Regenerable: info.BackendTag != "",
		})
	}

	dt, err := s.client.DisabilityTypes(ctx)
	if err != nil {
		s.log.Warn("Disability types unavailable, using local categories", "error", err)
		return out
	}
	out.Source = "backend"
	offered := make(map[string]bool, len(dt.Types))
	for _, tag := range dt.Types {
		offered[tag] = true
	}
	for i := range out.Categories {
		opt := &out.Categories[i]
		opt.Regenerable = opt.BackendTag != "" && offered[opt.BackendTag]
		if opt.Regenerable {
			opt.BackendDescription = dt.Descriptions[opt.BackendTag]
		}
	}
	for _, tag := range dt.Types {
		if _, ok := pdomain.CategoryFromBackendTag(tag); ok {
			continue
		}
		out.Categories = append(out.Categories, CategoryOption{
			ID:                 pdomain.Category(tag),
			Name:               tag,
			Description:        dt.Descriptions[tag],
			BackendTag:         tag,
			BackendDescription: dt.Descriptions[tag],
			Regenerable:        true,
		})
	}
	return out
}

func (s *cmsService) ContentModels(ctx context.Context) (map[string]cms.ContentModel, error) {
	models, err := s.client.ContentModels(ctx)
	if err != nil {
		return nil, s.upstream("content models", err)
	}
	return models, nil
}

func (s *cmsService) List(ctx context.Context, t cms.ContentType) ([]cms.Summary, error) {
	var (
		rows []cms.Summary
		err  error
	)
	switch t {
	case cms.ContentHotel:
		rows, err = s.client.ListHotels(ctx)
	case cms.ContentTour:
		rows, err = s.client.ListTours(ctx)
	case cms.ContentCareService:
		rows, err = s.client.ListCareServices(ctx)
	default:
		return nil, invalidContentType(t)
	}
	if err != nil {
		return nil, s.upstream("list "+string(t), err)
	}
	return rows, nil
}

// Get fetches one listing. A category selects the backend's adapted
// variant; no category returns the original content.
func (s *cmsService) Get(ctx context.Context, t cms.ContentType, id int64, rawCategory string) (any, error) {
	tag := ""
	if pdomain.ParseCategory(rawCategory) != pdomain.None {
		var err error
		if tag, err = backendTag(rawCategory); err != nil {
			return nil, err
		}
	}
	var (
		out any
		err error
	)
	switch t {
	case cms.ContentHotel:
		out, err = s.client.GetHotel(ctx, id, tag)
	case cms.ContentTour:
		out, err = s.client.GetTour(ctx, id, tag)
	case cms.ContentCareService:
		out, err = s.client.GetCareService(ctx, id, tag)
	default:
		return nil, invalidContentType(t)
	}
	if err != nil {
		return nil, s.upstream("get "+string(t), err)
	}
	return out, nil
}

func (s *cmsService) CreateHotel(ctx context.Context, in cms.HotelContent) (int64, error) {
	if err := requireFields("hotel", map[string]string{"name": in.Name, "location": in.Location}); err != nil {
		return 0, err
	}
	id, err := s.client.CreateHotel(ctx, in)
	if err != nil {
		return 0, s.upstream("create hotel", err)
	}
	s.log.Info("Hotel created", "hotel_id", id)
	return id, nil
}

func (s *cmsService) CreateTour(ctx context.Context, in cms.TourContent) (int64, error) {
	if err := requireFields("tour", map[string]string{"name": in.Name, "description": in.Description}); err != nil {
		return 0, err
	}
	id, err := s.client.CreateTour(ctx, in)
	if err != nil {
		return 0, s.upstream("create tour", err)
	}
	s.log.Info("Tour created", "tour_id", id)
	return id, nil
}

func (s *cmsService) CreateCareService(ctx context.Context, in cms.CareServiceContent) (int64, error) {
	if err := requireFields("care service", map[string]string{"name": in.Name, "description": in.Description}); err != nil {
		return 0, err
	}
	id, err := s.client.CreateCareService(ctx, in)
	if err != nil {
		return 0, s.upstream("create care service", err)
	}
	s.log.Info("Care service created", "service_id", id)
	return id, nil
}

func (s *cmsService) Validate(ctx context.Context, t cms.ContentType, body map[string]any) (cms.Validated, error) {
	fields := map[string]string{"name": stringField(body, "name")}
	switch t {
	case cms.ContentHotel:
		fields["location"] = stringField(body, "location")
	case cms.ContentTour, cms.ContentCareService:
		fields["description"] = stringField(body, "description")
	default:
		return cms.Validated{}, invalidContentType(t)
	}
	if err := requireFields(string(t), fields); err != nil {
		return cms.Validated{}, err
	}
	out, err := s.client.ValidateContent(ctx, t, body)
	if err != nil {
		return cms.Validated{}, s.upstream("validate "+string(t), err)
	}
	return out, nil
}

// Regenerate asks the backend to rebuild one adapted variant. Local state
// is never touched, so a failure leaves nothing to roll back.
func (s *cmsService) Regenerate(ctx context.Context, t cms.ContentType, id int64, rawCategory string) (cms.Regenerated, error) {
	if !t.Valid() {
		return cms.Regenerated{}, invalidContentType(t)
	}
	tag, err := backendTag(rawCategory)
	if err != nil {
		return cms.Regenerated{}, err
	}
	out, err := s.client.RegenerateContent(ctx, t, id, tag)
	if err != nil {
		return cms.Regenerated{}, s.upstream("regenerate "+string(t), err)
	}
	s.log.Info("Adaptive content regenerated", "content_type", string(t), "content_id", id, "disability_type", tag)
	return out, nil
}

// upstream maps a backend failure onto the API error taxonomy. Rejections
// the backend explains keep their status; everything else is a 502.
func (s *cmsService) upstream(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *cms.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return apierr.New(http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", perrors.ErrNotFound, apiErr.Message))
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return apierr.BadRequest("backend_rejected", errors.New(apiErr.Message))
		}
	}
	s.log.Warn("Content backend call failed", "op", op, "error", err)
	return apierr.BadGateway("backend_unavailable", fmt.Errorf("%w: %s: %v", perrors.ErrUnavailable, op, err))
}

func backendTag(raw string) (string, error) {
	c := pdomain.ParseCategory(raw)
	if c == pdomain.None {
		return "", apierr.BadRequest("invalid_category", fmt.Errorf("%w: category is required", perrors.ErrInvalidArgument))
	}
	tag := c.BackendTag()
	if tag == "" {
		return "", apierr.BadRequest("unsupported_category", fmt.Errorf("%w: category %q has no adapted content", perrors.ErrInvalidArgument, c.String()))
	}
	return tag, nil
}

func invalidContentType(t cms.ContentType) error {
	return apierr.BadRequest("invalid_content_type", fmt.Errorf("%w: unknown content type %q", perrors.ErrInvalidArgument, string(t)))
}

// requireFields reports the first missing field in a fixed order so the
// message is stable.
func requireFields(kind string, fields map[string]string) error {
	for _, name := range []string{"name", "location", "description"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			return apierr.BadRequest("validation_error", fmt.Errorf("%w: %s %s is required", perrors.ErrInvalidArgument, kind, name))
		}
	}
	return nil
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
