package catalog

import "github.com/reewhy/musicplayer/internal/domain"

type tracksResponse struct {
	Tracks []domain.Song `json:"tracks"`
}

type albumsResponse struct {
	Albums []domain.Album `json:"albums"`
}

type albumResponse struct {
	Album *domain.Album `json:"album"`
}

type streamResponse struct {
	URL string `json:"url"`
}
