package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmfest/catalog-api/internal/api/metrics"
	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

// RatingHandler handles rating submission and aggregate reads.
type RatingHandler struct {
	service ports.RatingService
}

func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		Username:  r.Username,
		MovieID:   r.MovieID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// Submit handles POST /v1/movies/:id/ratings. The author is always the
// request identity; the payload cannot name one.
func (h *RatingHandler) Submit(c echo.Context) error {
	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RatingsSubmittedTotal.WithLabelValues("invalid_score").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := requireUser(c)
	if err != nil {
		return err
	}

	rating, err := h.service.Submit(c.Request().Context(), ports.SubmitRatingInput{
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		MovieID:        c.Param("id"),
		Score:          req.Score,
		Comment:        req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRating):
			metrics.RatingsSubmittedTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrMovieNotFound):
			metrics.RatingsSubmittedTotal.WithLabelValues("movie_not_found").Inc()
		case errors.Is(err, domain.ErrInvalidScore):
			metrics.RatingsSubmittedTotal.WithLabelValues("invalid_score").Inc()
		}
		return err
	}

	metrics.RatingsSubmittedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toRatingResponse(rating))
}

// ListByMovie handles GET /v1/movies/:id/ratings.
func (h *RatingHandler) ListByMovie(c echo.Context) error {
	ratings, err := h.service.ListByMovie(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	items := make([]ratingResponse, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, toRatingResponse(r))
	}
	return c.JSON(http.StatusOK, listRatingsResponse{Data: items, Total: len(items)})
}

// Average handles GET /v1/movies/:id/ratings/average.
func (h *RatingHandler) Average(c echo.Context) error {
	start := time.Now()
	result, err := h.service.AverageFor(c.Request().Context(), c.Param("id"))
	if err != nil {
		metrics.AverageQueryDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}
	metrics.AverageQueryDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, averageResponse{
		MovieID: result.MovieID,
		Average: result.Average,
		Count:   result.Count,
	})
}

// Mine handles GET /v1/ratings/mine — the caller's own ratings.
func (h *RatingHandler) Mine(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	ratings, err := h.service.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	items := make([]ratingResponse, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, toRatingResponse(r))
	}
	return c.JSON(http.StatusOK, listRatingsResponse{Data: items, Total: len(items)})
}
