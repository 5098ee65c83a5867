package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

// AverageCache abstracts the aggregate-score cache (Redis). A nil-safe
// implementation must be provided; cache failures degrade to the storage
// aggregation, never to a request failure.
type AverageCache interface {
	Get(ctx context.Context, movieID string) (avg float64, count int64, ok bool, err error)
	Set(ctx context.Context, movieID string, avg float64, count int64) error
	// Invalidate drops the cached aggregate so the next read recomputes it.
	// Called after every successful insert to keep reads consistent with
	// writes.
	Invalidate(ctx context.Context, movieID string) error
}

type ratingService struct {
	ratings ports.RatingRepository
	movies  ports.MovieRepository
	cache   AverageCache
	audit   AuditSink
	log     zerolog.Logger
}

// NewRatingService returns a RatingService implementation.
func NewRatingService(
	ratings ports.RatingRepository,
	movies ports.MovieRepository,
	cache AverageCache,
	audit AuditSink,
	log zerolog.Logger,
) ports.RatingService {
	return &ratingService{
		ratings: ratings,
		movies:  movies,
		cache:   cache,
		audit:   audit,
		log:     log,
	}
}

// Submit records one rating per (user, movie). The existence pre-check is a
// fast path only; two concurrent submissions can both pass it, and the
// repository's unique index decides the winner. Both rejection paths surface
// as domain.ErrDuplicateRating.
func (s *ratingService) Submit(ctx context.Context, in ports.SubmitRatingInput) (*domain.Rating, error) {
	if !domain.ValidScore(in.Score) {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", domain.ErrInvalidScore, in.Score, domain.MinScore, domain.MaxScore)
	}

	exists, err := s.movies.ExistsByID(ctx, in.MovieID)
	if err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}
	if !exists {
		return nil, domain.ErrMovieNotFound
	}

	dup, err := s.ratings.ExistsByUserAndMovie(ctx, in.AuthorID, in.MovieID)
	if err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}
	if dup {
		return nil, domain.ErrDuplicateRating
	}

	rating := &domain.Rating{
		UserID:    in.AuthorID,
		Username:  in.AuthorUsername,
		MovieID:   in.MovieID,
		Score:     in.Score,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.ratings.Insert(ctx, rating)
	if err != nil {
		return nil, err
	}

	// Drop the cached aggregate only after the insert committed, so the next
	// average read sees this rating.
	if err := s.cache.Invalidate(ctx, in.MovieID); err != nil {
		s.log.Warn().Err(err).Str("movie_id", in.MovieID).Msg("failed to invalidate average cache")
	}

	s.audit.Record(domain.AuditEvent{
		Subject:   in.AuthorUsername,
		Kind:      domain.AuditRatingSubmit,
		Detail:    fmt.Sprintf("movie=%s score=%d", in.MovieID, in.Score),
		Timestamp: created.CreatedAt,
	})
	s.log.Info().Str("movie_id", in.MovieID).Str("user_id", in.AuthorID).Int("score", in.Score).Msg("rating submitted")

	return created, nil
}

// AverageFor returns the mean score for a movie, 0.0 when it has none. The
// mean is computed by the storage layer's aggregation; the cache only
// memoizes that result and is dropped on every write.
func (s *ratingService) AverageFor(ctx context.Context, movieID string) (*ports.AverageResult, error) {
	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !exists {
		return nil, domain.ErrMovieNotFound
	}

	if avg, count, ok, err := s.cache.Get(ctx, movieID); err != nil {
		s.log.Warn().Err(err).Str("movie_id", movieID).Msg("average cache read failed")
	} else if ok {
		return &ports.AverageResult{MovieID: movieID, Average: avg, Count: count}, nil
	}

	avg, found, err := s.ratings.AverageForMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !found {
		return &ports.AverageResult{MovieID: movieID, Average: 0.0}, nil
	}

	count, err := s.ratings.CountForMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	if err := s.cache.Set(ctx, movieID, avg, count); err != nil {
		s.log.Warn().Err(err).Str("movie_id", movieID).Msg("average cache write failed")
	}

	return &ports.AverageResult{MovieID: movieID, Average: avg, Count: count}, nil
}

func (s *ratingService) ListByMovie(ctx context.Context, movieID string) ([]*domain.Rating, error) {
	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if !exists {
		return nil, domain.ErrMovieNotFound
	}
	return s.ratings.FindByMovie(ctx, movieID)
}

func (s *ratingService) ListByUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.ratings.FindByUser(ctx, userID)
}
