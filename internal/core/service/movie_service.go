package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

type movieService struct {
	repo ports.MovieRepository
	log  zerolog.Logger
}

// NewMovieService returns the thin catalog service. No business rules live
// here beyond existence checks; write access is enforced upstream by the
// authorization policy.
func NewMovieService(repo ports.MovieRepository, log zerolog.Logger) ports.MovieService {
	return &movieService{repo: repo, log: log}
}

func (s *movieService) Create(ctx context.Context, in ports.MovieInput) (*domain.Movie, error) {
	now := time.Now().UTC()
	movie := &domain.Movie{
		Title:       in.Title,
		Director:    in.Director,
		ReleaseYear: in.ReleaseYear,
		Genre:       in.Genre,
		DurationMin: in.DurationMin,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("movie_id", created.ID).Str("title", created.Title).Msg("movie created")
	return created, nil
}

func (s *movieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *movieService) List(ctx context.Context) ([]*domain.Movie, error) {
	return s.repo.List(ctx)
}

func (s *movieService) Update(ctx context.Context, id string, in ports.MovieInput) (*domain.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movie.Title = in.Title
	movie.Director = in.Director
	movie.ReleaseYear = in.ReleaseYear
	movie.Genre = in.Genre
	movie.DurationMin = in.DurationMin
	movie.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, movie)
}

func (s *movieService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("movie_id", id).Msg("movie deleted")
	return nil
}
