package handler

import "time"

type movieRequest struct {
	Title       string `json:"title"        validate:"required,max=200"`
	Director    string `json:"director"     validate:"required,max=100"`
	ReleaseYear int    `json:"release_year" validate:"required,gte=1888"`
	Genre       string `json:"genre"        validate:"required,max=50"`
	DurationMin int    `json:"duration_min" validate:"required,gt=0"`
}

type movieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"release_year"`
	Genre       string    `json:"genre"`
	DurationMin int       `json:"duration_min"`
	CreatedAt   time.Time `json:"created_at"`
}

type listMoviesResponse struct {
	Data  []movieResponse `json:"data"`
	Total int             `json:"total"`
}
