package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/domain"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	searchType := r.URL.Query().Get("type")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if searchType == "album" {
		albums, err := h.Catalog.SearchAlbums(r.Context(), query, offset)
		if err != nil {
			h.Log.Error("Album search failed", "query", query, "error", err)
			h.writeError(w, http.StatusBadGateway, "search failed")
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"albums": albums})
		return
	}

	tracks, err := h.Catalog.SearchTracks(r.Context(), query, offset)
	if err != nil {
		h.Log.Error("Track search failed", "query", query, "error", err)
		h.writeError(w, http.StatusBadGateway, "search failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

func (h *Handler) CatalogAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	album, err := h.Catalog.GetAlbum(r.Context(), id)
	if err != nil {
		h.Log.Error("Album lookup failed", "albumID", id, "error", err)
		h.writeError(w, http.StatusBadGateway, "album lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"album": album})
}

func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs := h.Library.ListSongs()
	if songs == nil {
		songs = []domain.Song{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"songs": songs})
}

func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums := h.Library.ListAlbums()
	if albums == nil {
		albums = []domain.Album{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"albums": albums})
}

func (h *Handler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	album := h.Library.GetAlbum(id)
	if album == nil {
		h.writeError(w, http.StatusNotFound, "album not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"album": album})
}

// SaveAlbum fetches the album from the catalog and stores it with all of its
// tracks.
func (h *Handler) SaveAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	album, err := h.Catalog.GetAlbum(r.Context(), id)
	if err != nil {
		h.Log.Error("Album fetch failed", "albumID", id, "error", err)
		h.writeError(w, http.StatusBadGateway, "album lookup failed")
		return
	}
	if !h.Library.SaveAlbum(album) {
		h.writeError(w, http.StatusInternalServerError, "failed to save album")
		return
	}
	h.cacheAlbumCover(r.Context(), album)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"album": album})
}

// cacheAlbumCover stores the album artwork locally so it survives offline.
// Failures are log-only; the remote URL fallback still renders.
func (h *Handler) cacheAlbumCover(ctx context.Context, album *domain.Album) {
	path, exists := h.Resolver.AlbumCoverPath(album)
	if path == "" || exists {
		return
	}
	url := album.Images.Large
	if url == "" {
		url = album.Cover
	}
	if url == "" {
		return
	}

	data, err := h.Catalog.FetchImage(ctx, url)
	if err != nil {
		h.Log.Warn("Failed to fetch album cover", "albumID", album.ID, "error", err)
		return
	}
	if err := assets.EnsureDir(filepath.Dir(path)); err != nil {
		h.Log.Warn("Failed to create covers directory", "albumID", album.ID, "error", err)
		return
	}
	if err := assets.WriteFile(path, data); err != nil {
		h.Log.Warn("Failed to cache album cover", "albumID", album.ID, "error", err)
	}
}

func (h *Handler) RemoveAlbum(w http.ResponseWriter, r *http.Request) {
	if !h.Library.RemoveAlbum(chi.URLParam(r, "id")) {
		h.writeError(w, http.StatusInternalServerError, "failed to remove album")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LikedSongs(w http.ResponseWriter, r *http.Request) {
	songs := h.Library.LikedSongs()
	if songs == nil {
		songs = []domain.Song{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"songs": songs})
}

func (h *Handler) LikeSong(w http.ResponseWriter, r *http.Request) {
	var song domain.Song
	if !h.readJSON(w, r, &song) {
		return
	}
	if song.ID == "" {
		h.writeError(w, http.StatusBadRequest, "missing song id")
		return
	}
	if !h.Library.LikeSong(&song) {
		h.writeError(w, http.StatusInternalServerError, "failed to like song")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IsLiked(w http.ResponseWriter, r *http.Request) {
	liked := h.Library.IsLiked(chi.URLParam(r, "songId"))
	h.writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) UnlikeSong(w http.ResponseWriter, r *http.Request) {
	if !h.Library.UnlikeSong(chi.URLParam(r, "songId")) {
		h.writeError(w, http.StatusInternalServerError, "failed to unlike song")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists := h.Library.ListPlaylists()
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	for i := range playlists {
		playlists[i].Image = h.Resolver.ResolvePlaylistImage(&playlists[i])
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "missing playlist name")
		return
	}
	id := h.Library.CreatePlaylist(req.Name, req.Image)
	if id < 0 {
		h.writeError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	pl := h.Library.GetPlaylist(id)
	if pl == nil {
		h.writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	pl.Image = h.Resolver.ResolvePlaylistImage(pl)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"playlist": pl})
}

func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	var req struct {
		Name  *string `json:"name"`
		Image *string `json:"image"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if req.Name != nil && !h.Library.RenamePlaylist(id, *req.Name) {
		h.writeError(w, http.StatusInternalServerError, "failed to rename playlist")
		return
	}
	if req.Image != nil && !h.Library.SetPlaylistImage(id, *req.Image) {
		h.writeError(w, http.StatusInternalServerError, "failed to update playlist image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	if !h.Library.DeletePlaylist(id) {
		h.writeError(w, http.StatusForbidden, "playlist cannot be deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddToPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	var song domain.Song
	if !h.readJSON(w, r, &song) {
		return
	}
	if song.ID == "" {
		h.writeError(w, http.StatusBadRequest, "missing song id")
		return
	}
	if !h.Library.AddToPlaylist(id, &song) {
		h.writeError(w, http.StatusInternalServerError, "failed to add song to playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	if !h.Library.RemoveFromPlaylist(id, chi.URLParam(r, "songId")) {
		h.writeError(w, http.StatusInternalServerError, "failed to remove song from playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PlayerStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

// Play starts playback of a song, optionally replacing the queue, or of an
// existing queue index when only "index" is given.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Song  *domain.Song  `json:"song"`
		Queue []domain.Song `json:"queue"`
		Index *int          `json:"index"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}

	var ok bool
	switch {
	case req.Song != nil:
		ok = h.Player.PlaySong(r.Context(), req.Song, req.Queue, nil)
	case req.Index != nil:
		ok = h.Player.PlayFromQueue(r.Context(), *req.Index, nil)
	default:
		h.writeError(w, http.StatusBadRequest, "missing song or index")
		return
	}
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "playback failed")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

func (h *Handler) PlayNext(w http.ResponseWriter, r *http.Request) {
	if !h.Player.PlayNext(r.Context(), nil) {
		h.writeError(w, http.StatusConflict, "no next track")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

func (h *Handler) PlayPrevious(w http.ResponseWriter, r *http.Request) {
	if !h.Player.PlayPrevious(r.Context(), nil) {
		h.writeError(w, http.StatusConflict, "no previous track")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	if !h.Player.Pause() {
		h.writeError(w, http.StatusConflict, "nothing playing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	if !h.Player.Resume() {
		h.writeError(w, http.StatusConflict, "nothing to resume")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	if !h.Player.Stop() {
		h.writeError(w, http.StatusConflict, "nothing playing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds float64 `json:"seconds"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if !h.Player.Seek(req.Seconds) {
		h.writeError(w, http.StatusConflict, "nothing playing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetVolume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume float64 `json:"volume"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if !h.Player.SetVolume(req.Volume) {
		h.writeError(w, http.StatusConflict, "nothing playing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate float64 `json:"rate"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if !h.Player.SetRate(req.Rate) {
		h.writeError(w, http.StatusConflict, "nothing playing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleShuffle(w http.ResponseWriter, r *http.Request) {
	shuffle := h.Player.ToggleShuffle()
	h.writeJSON(w, http.StatusOK, map[string]bool{"shuffle": shuffle})
}

func (h *Handler) SetRepeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode domain.RepeatMode `json:"mode"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	switch req.Mode {
	case domain.RepeatNone, domain.RepeatOne, domain.RepeatAll:
	default:
		h.writeError(w, http.StatusBadRequest, "invalid repeat mode")
		return
	}
	h.Player.SetRepeat(req.Mode)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Songs      []domain.Song `json:"songs"`
		StartIndex int           `json:"startIndex"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	h.Player.SetQueue(req.Songs, req.StartIndex)
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

func (h *Handler) AddToQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Song     domain.Song `json:"song"`
		Position *int        `json:"position"`
	}
	if !h.readJSON(w, r, &req) {
		return
	}
	if req.Song.ID == "" {
		h.writeError(w, http.StatusBadRequest, "missing song id")
		return
	}
	if req.Position != nil {
		h.Player.AddToQueue(req.Song, *req.Position)
	} else {
		h.Player.AddToQueue(req.Song)
	}
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}

func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	h.Player.ClearQueue()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid queue index")
		return
	}
	if !h.Player.RemoveFromQueue(index) {
		h.writeError(w, http.StatusConflict, "queue index out of range")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Player.Status())
}
