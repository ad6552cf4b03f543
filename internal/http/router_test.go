package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/claireundgeorge/accessible-site/internal/clients/cms"
	"github.com/claireundgeorge/accessible-site/internal/data/kv"
	httpH "github.com/claireundgeorge/accessible-site/internal/http/handlers"
	httpMW "github.com/claireundgeorge/accessible-site/internal/http/middleware"
	"github.com/claireundgeorge/accessible-site/internal/modules/adaptation"
	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/realtime"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type stubCMS struct{}

func (stubCMS) ListHotels(context.Context) ([]cms.Summary, error) {
	return []cms.Summary{{ID: 1, Name: "Harbour Inn"}}, nil
}
func (stubCMS) GetHotel(_ context.Context, id int64, _ string) (cms.Hotel, error) {
	return cms.Hotel{Record: cms.Record{ID: id}}, nil
}
func (stubCMS) CreateHotel(context.Context, cms.HotelContent) (int64, error) { return 9, nil }
func (stubCMS) ListTours(context.Context) ([]cms.Summary, error)             { return []cms.Summary{}, nil }
func (stubCMS) GetTour(_ context.Context, id int64, _ string) (cms.Tour, error) {
	return cms.Tour{Record: cms.Record{ID: id}}, nil
}
func (stubCMS) CreateTour(context.Context, cms.TourContent) (int64, error) { return 10, nil }
func (stubCMS) ListCareServices(context.Context) ([]cms.Summary, error) {
	return []cms.Summary{}, nil
}
func (stubCMS) GetCareService(_ context.Context, id int64, _ string) (cms.CareService, error) {
	return cms.CareService{Record: cms.Record{ID: id}}, nil
}
func (stubCMS) CreateCareService(context.Context, cms.CareServiceContent) (int64, error) {
	return 11, nil
}
func (stubCMS) DisabilityTypes(context.Context) (cms.DisabilityTypes, error) {
	return cms.DisabilityTypes{}, nil
}
func (stubCMS) ContentModels(context.Context) (map[string]cms.ContentModel, error) {
	return map[string]cms.ContentModel{}, nil
}
func (stubCMS) ValidateContent(context.Context, cms.ContentType, any) (cms.Validated, error) {
	return cms.Validated{}, nil
}
func (stubCMS) RegenerateContent(context.Context, cms.ContentType, int64, string) (cms.Regenerated, error) {
	return cms.Regenerated{}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	cfg := persona.DefaultConfig()
	cfg.TransitionDuration = 0
	manager := persona.NewManager(cfg, persona.StoreDeps{Storage: kv.NewMemory(), Log: log})
	catalog := adaptation.LoadCatalog(log)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := services.NewAuthService(log, services.AuthConfig{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		EditorEmail:  "editor@example.com",
		PasswordHash: string(hash),
	})

	return NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, auth),
		AuthHandler:    httpH.NewAuthHandler(auth),
		PersonaHandler: httpH.NewPersonaHandler(log, services.NewPersonaService(log, manager), realtime.NewSSEHub(log)),
		SiteHandler:    httpH.NewSiteHandler(services.NewSiteService(log, manager, catalog)),
		CMSHandler:     httpH.NewCMSHandler(services.NewCMSService(log, stubCMS{}, nil)),
		HealthHandler:  httpH.NewHealthHandler(),
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env, _ := decodeBody(t, rec)["error"].(map[string]any)
	code, _ := env["code"].(string)
	return code
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/healthcheck", nil, nil, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: want=200 ok got=%d %q", rec.Code, rec.Body.String())
	}
}

func TestPersonaFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/persona", nil, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET persona: want=200 got=%d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != httpMW.VisitorCookie {
		t.Fatalf("visitor cookie not issued: %v", cookies)
	}
	if phase := decodeBody(t, rec)["phase"]; phase != "unanswered" {
		t.Fatalf("initial phase: want=unanswered got=%v", phase)
	}

	rec = do(t, r, http.MethodPost, "/api/persona/assessment", map[string]any{"needs_support": true}, cookies, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("assessment: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if phase := decodeBody(t, rec)["phase"]; phase != "choosing_category" {
		t.Fatalf("after yes: want=choosing_category got=%v", phase)
	}

	rec = do(t, r, http.MethodPost, "/api/persona/category", map[string]any{"category": "wheelchair"}, cookies, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("category: want=202 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if phase := decodeBody(t, rec)["phase"]; phase != "resolved" {
		t.Fatalf("after select: want=resolved got=%v", phase)
	}

	rec = do(t, r, http.MethodGet, "/api/site/home", nil, cookies, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("home: want=200 got=%d", rec.Code)
	}
	page, _ := decodeBody(t, rec)["persona"].(map[string]any)
	if page["category"] != "wheelchair" {
		t.Fatalf("home persona category: want=wheelchair got=%v", page["category"])
	}

	rec = do(t, r, http.MethodPost, "/api/persona/back", nil, cookies, "")
	if rec.Code != http.StatusConflict || errorCode(t, rec) != "invalid_phase" {
		t.Fatalf("back after resolve: want=409 invalid_phase got=%d %s", rec.Code, rec.Body.String())
	}
}

func TestAssessmentRequiresAnswer(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/api/persona/assessment", map[string]any{}, nil, "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_request" {
		t.Fatalf("missing needs_support: want=400 invalid_request got=%d %s", rec.Code, rec.Body.String())
	}
}

func TestCMSRequiresToken(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/api/cms/hotels", nil, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=401 got=%d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/cms/hotels", nil, nil, "not-a-jwt")
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "unauthorized" {
		t.Fatalf("bad token: want=401 unauthorized got=%d %s", rec.Code, rec.Body.String())
	}
}

func TestCMSLoginAndList(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/cms/login", map[string]any{"email": "editor@example.com", "password": "wrong"}, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: want=401 got=%d", rec.Code)
	}

	rec = do(t, r, http.MethodPost, "/api/cms/login", map[string]any{"email": "Editor@Example.com", "password": "s3cret"}, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["access_token"].(string)
	if token == "" {
		t.Fatalf("login: empty access_token")
	}

	rec = do(t, r, http.MethodGet, "/api/cms/hotels", nil, nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list hotels: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	items, _ := decodeBody(t, rec)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("list hotels: want=1 got=%d", len(items))
	}

	rec = do(t, r, http.MethodGet, "/api/cms/hotels/abc", nil, nil, token)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_id" {
		t.Fatalf("bad id: want=400 invalid_id got=%d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/cms/validate/boats", map[string]any{"name": "x"}, nil, token)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_content_type" {
		t.Fatalf("bad type: want=400 invalid_content_type got=%d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/cms/tours", map[string]any{"name": "Coast walk", "description": "Flat route"}, nil, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tour: want=201 got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/cms/regenerate/tours/3", map[string]any{"category": "hearing"}, nil, token)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "unsupported_category" {
		t.Fatalf("regenerate hearing: want=400 unsupported_category got=%d %s", rec.Code, rec.Body.String())
	}
}
