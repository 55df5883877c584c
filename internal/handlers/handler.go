// Package handlers exposes the library, catalog and player over a JSON API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/catalog"
	"github.com/reewhy/musicplayer/internal/library"
	"github.com/reewhy/musicplayer/internal/logger"
	"github.com/reewhy/musicplayer/internal/player"
)

type Handler struct {
	Library  *library.Library
	Catalog  *catalog.Client
	Player   *player.Engine
	Resolver *assets.Resolver
	Log      *logger.Logger
}

func NewHandler(lib *library.Library, cat *catalog.Client, eng *player.Engine, res *assets.Resolver, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Library:  lib,
		Catalog:  cat,
		Player:   eng,
		Resolver: res,
		Log:      log.WithComponent("handlers"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/album/{id}", h.CatalogAlbum)

		r.Route("/library", func(r chi.Router) {
			r.Get("/songs", h.ListSongs)
			r.Get("/albums", h.ListAlbums)
			r.Get("/albums/{id}", h.GetAlbum)
			r.Post("/albums/{id}", h.SaveAlbum)
			r.Delete("/albums/{id}", h.RemoveAlbum)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Get("/", h.LikedSongs)
			r.Post("/", h.LikeSong)
			r.Get("/{songId}", h.IsLiked)
			r.Delete("/{songId}", h.UnlikeSong)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", h.ListPlaylists)
			r.Post("/", h.CreatePlaylist)
			r.Get("/{id}", h.GetPlaylist)
			r.Patch("/{id}", h.UpdatePlaylist)
			r.Delete("/{id}", h.DeletePlaylist)
			r.Post("/{id}/tracks", h.AddToPlaylist)
			r.Delete("/{id}/tracks/{songId}", h.RemoveFromPlaylist)
		})

		r.Route("/player", func(r chi.Router) {
			r.Get("/", h.PlayerStatus)
			r.Post("/play", h.Play)
			r.Post("/next", h.PlayNext)
			r.Post("/previous", h.PlayPrevious)
			r.Post("/pause", h.Pause)
			r.Post("/resume", h.Resume)
			r.Post("/stop", h.Stop)
			r.Post("/seek", h.Seek)
			r.Post("/volume", h.SetVolume)
			r.Post("/rate", h.SetRate)
			r.Post("/shuffle", h.ToggleShuffle)
			r.Post("/repeat", h.SetRepeat)
			r.Post("/queue", h.SetQueue)
			r.Post("/queue/add", h.AddToQueue)
			r.Delete("/queue", h.ClearQueue)
			r.Delete("/queue/{index}", h.RemoveFromQueue)
		})
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
