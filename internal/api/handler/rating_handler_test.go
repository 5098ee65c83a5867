package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/filmfest/catalog-api/internal/api"
	"github.com/filmfest/catalog-api/internal/api/handler"
	"github.com/filmfest/catalog-api/internal/api/middleware"
	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

type stubRatingService struct {
	submitFn      func(ctx context.Context, in ports.SubmitRatingInput) (*domain.Rating, error)
	averageFn     func(ctx context.Context, movieID string) (*ports.AverageResult, error)
	listByMovieFn func(ctx context.Context, movieID string) ([]*domain.Rating, error)
	listByUserFn  func(ctx context.Context, userID string) ([]*domain.Rating, error)
}

func (s *stubRatingService) Submit(ctx context.Context, in ports.SubmitRatingInput) (*domain.Rating, error) {
	return s.submitFn(ctx, in)
}

func (s *stubRatingService) AverageFor(ctx context.Context, movieID string) (*ports.AverageResult, error) {
	return s.averageFn(ctx, movieID)
}

func (s *stubRatingService) ListByMovie(ctx context.Context, movieID string) ([]*domain.Rating, error) {
	return s.listByMovieFn(ctx, movieID)
}

func (s *stubRatingService) ListByUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.listByUserFn(ctx, userID)
}

func newRatingServer(svc ports.RatingService, resolver *stubAuthService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Identity(testCodec, resolver))

	h := handler.NewRatingHandler(svc)
	e.POST("/v1/movies/:id/ratings", h.Submit, middleware.Authorize(middleware.OpSubmitRating))
	e.GET("/v1/movies/:id/ratings", h.ListByMovie, middleware.Authorize(middleware.OpReadRatings))
	e.GET("/v1/movies/:id/ratings/average", h.Average, middleware.Authorize(middleware.OpReadRatings))
	e.GET("/v1/ratings/mine", h.Mine, middleware.Authorize(middleware.OpReadOwnRatings))

	return e
}

func memberResolver(username, id string) *stubAuthService {
	return &stubAuthService{
		resolveFn: func(_ context.Context, name string) (*domain.User, error) {
			if name == username {
				return &domain.User{ID: id, Username: username, Role: domain.RoleMember}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
}

func TestRatingHandler_Submit_Created(t *testing.T) {
	svc := &stubRatingService{
		submitFn: func(_ context.Context, in ports.SubmitRatingInput) (*domain.Rating, error) {
			// The author must come from the verified identity, not the payload.
			if in.AuthorID != "u1" || in.AuthorUsername != "alice" {
				t.Fatalf("unexpected author: %+v", in)
			}
			if in.MovieID != "m1" || in.Score != 8 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Rating{ID: "r1", UserID: in.AuthorID, Username: in.AuthorUsername, MovieID: in.MovieID, Score: in.Score}, nil
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodPost, "/v1/movies/m1/ratings",
		`{"score":8,"comment":"great pacing"}`, issueToken(t, "alice", domain.RoleMember))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "r1" || resp["score"] != float64(8) {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestRatingHandler_Submit_Duplicate(t *testing.T) {
	svc := &stubRatingService{
		submitFn: func(_ context.Context, _ ports.SubmitRatingInput) (*domain.Rating, error) {
			return nil, domain.ErrDuplicateRating
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodPost, "/v1/movies/m1/ratings",
		`{"score":5}`, issueToken(t, "alice", domain.RoleMember))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "movie already rated" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestRatingHandler_Submit_MovieNotFound(t *testing.T) {
	svc := &stubRatingService{
		submitFn: func(_ context.Context, _ ports.SubmitRatingInput) (*domain.Rating, error) {
			return nil, domain.ErrMovieNotFound
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodPost, "/v1/movies/missing/ratings",
		`{"score":5}`, issueToken(t, "alice", domain.RoleMember))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRatingHandler_Submit_Anonymous(t *testing.T) {
	svc := &stubRatingService{
		submitFn: func(_ context.Context, _ ports.SubmitRatingInput) (*domain.Rating, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodPost, "/v1/movies/m1/ratings", `{"score":5}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "authentication required" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestRatingHandler_Submit_ScoreValidation(t *testing.T) {
	svc := &stubRatingService{
		submitFn: func(_ context.Context, _ ports.SubmitRatingInput) (*domain.Rating, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))
	token := issueToken(t, "alice", domain.RoleMember)

	for _, body := range []string{`{"score":0}`, `{"score":11}`, `{"score":-3}`, `{}`} {
		rec := doJSON(e, http.MethodPost, "/v1/movies/m1/ratings", body, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRatingHandler_Average(t *testing.T) {
	svc := &stubRatingService{
		averageFn: func(_ context.Context, movieID string) (*ports.AverageResult, error) {
			return &ports.AverageResult{MovieID: movieID, Average: 7.5, Count: 4}, nil
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodGet, "/v1/movies/m1/ratings/average", "", issueToken(t, "alice", domain.RoleMember))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["movie_id"] != "m1" || resp["average"] != 7.5 || resp["count"] != float64(4) {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestRatingHandler_Mine(t *testing.T) {
	svc := &stubRatingService{
		listByUserFn: func(_ context.Context, userID string) ([]*domain.Rating, error) {
			if userID != "u1" {
				t.Fatalf("expected caller's own ID, got %q", userID)
			}
			return []*domain.Rating{
				{ID: "r1", UserID: "u1", Username: "alice", MovieID: "m1", Score: 8},
				{ID: "r2", UserID: "u1", Username: "alice", MovieID: "m2", Score: 4},
			}, nil
		},
	}
	e := newRatingServer(svc, memberResolver("alice", "u1"))

	rec := doJSON(e, http.MethodGet, "/v1/ratings/mine", "", issueToken(t, "alice", domain.RoleMember))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(2) {
		t.Fatalf("expected 2 ratings, got %v", resp["total"])
	}
}
