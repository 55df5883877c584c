package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/catalog"
	"github.com/reewhy/musicplayer/internal/domain"
	"github.com/reewhy/musicplayer/internal/httpclient"
	"github.com/reewhy/musicplayer/internal/library"
	"github.com/reewhy/musicplayer/internal/player"
	"github.com/reewhy/musicplayer/internal/store"
)

// setupAPI wires the full stack against a stub catalog server and returns
// the router and the asset resolver it serves from.
func setupAPI(t *testing.T) (*chi.Mux, *assets.Resolver) {
	t.Helper()

	var upstream *httptest.Server
	upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(`{"tracks":[{"id":"t1","title":"Found Track","artist":"Artist"}]}`))
		case "/album":
			fmt.Fprintf(w, `{"album":{"id":"al1","title":"Remote Album",
				"cover":%q,
				"tracks":[{"id":"t1","title":"Track 1","albumId":"al1"}]}}`, upstream.URL+"/cover.jpg")
		case "/stream":
			fmt.Fprintf(w, `{"url":%q}`, upstream.URL+"/audio/"+r.URL.Query().Get("trackId"))
		default:
			w.Write([]byte("flacdata"))
		}
	}))
	t.Cleanup(upstream.Close)

	st := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err := st.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	lib := library.New(st, nil)
	resolver := assets.NewResolver(t.TempDir())
	hc := httpclient.NewClient(upstream.Client(), time.Millisecond)
	cat := catalog.NewClient(upstream.URL, hc, nil)
	audio := player.NewHeadlessAudio(nil)
	engine := player.NewEngine(audio, cat, resolver, 27, nil)

	r := chi.NewRouter()
	NewHandler(lib, cat, engine, resolver, nil).RegisterRoutes(r)
	return r, resolver
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestSearchRoute(t *testing.T) {
	r, _ := setupAPI(t)

	rec := doJSON(t, r, http.MethodGet, "/api/search?q=test", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Tracks []domain.Song `json:"tracks"`
	}
	decode(t, rec, &resp)
	if len(resp.Tracks) != 1 || resp.Tracks[0].ID != "t1" {
		t.Errorf("Unexpected tracks %+v", resp.Tracks)
	}

	if rec := doJSON(t, r, http.MethodGet, "/api/search", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Missing query should be rejected, got %d", rec.Code)
	}
}

func TestLikesFlow(t *testing.T) {
	r, _ := setupAPI(t)
	song := domain.Song{ID: "s1", Title: "Song", Artist: "Artist"}

	if rec := doJSON(t, r, http.MethodPost, "/api/likes/", song); rec.Code != http.StatusNoContent {
		t.Fatalf("Like failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec := doJSON(t, r, http.MethodGet, "/api/likes/s1", nil)
	var liked struct {
		Liked bool `json:"liked"`
	}
	decode(t, rec, &liked)
	if !liked.Liked {
		t.Error("Song should be liked")
	}

	rec = doJSON(t, r, http.MethodGet, "/api/likes/", nil)
	var list struct {
		Songs []domain.Song `json:"songs"`
	}
	decode(t, rec, &list)
	if len(list.Songs) != 1 || list.Songs[0].ID != "s1" {
		t.Errorf("Unexpected liked songs %+v", list.Songs)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/likes/s1", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("Unlike failed with %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/likes/s1", nil)
	decode(t, rec, &liked)
	if liked.Liked {
		t.Error("Song should no longer be liked")
	}
}

func TestSaveAlbumRoute(t *testing.T) {
	r, resolver := setupAPI(t)

	rec := doJSON(t, r, http.MethodPost, "/api/library/albums/al1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveAlbum failed with %d: %s", rec.Code, rec.Body.String())
	}

	// The album cover gets cached locally as a side effect.
	if _, exists := resolver.AlbumCoverPath(&domain.Album{ID: "al1"}); !exists {
		t.Error("Album cover should be cached after save")
	}

	rec = doJSON(t, r, http.MethodGet, "/api/library/albums/al1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GetAlbum failed with %d", rec.Code)
	}
	var resp struct {
		Album domain.Album `json:"album"`
	}
	decode(t, rec, &resp)
	if resp.Album.Title != "Remote Album" || len(resp.Album.Tracks) != 1 {
		t.Errorf("Unexpected album %+v", resp.Album)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/library/albums/al1", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("RemoveAlbum failed with %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/api/library/albums/al1", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Removed album should be 404, got %d", rec.Code)
	}
}

func TestPlaylistRoutes(t *testing.T) {
	r, _ := setupAPI(t)

	rec := doJSON(t, r, http.MethodPost, "/api/playlists/", map[string]string{"name": "Mix"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("CreatePlaylist failed with %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &created)
	if created.ID <= 0 {
		t.Fatalf("Unexpected playlist id %d", created.ID)
	}

	path := fmt.Sprintf("/api/playlists/%d", created.ID)
	if rec := doJSON(t, r, http.MethodPatch, path, map[string]string{"name": "Better Mix"}); rec.Code != http.StatusNoContent {
		t.Fatalf("UpdatePlaylist failed with %d", rec.Code)
	}

	song := domain.Song{ID: "s1", Title: "Song"}
	if rec := doJSON(t, r, http.MethodPost, path+"/tracks", song); rec.Code != http.StatusNoContent {
		t.Fatalf("AddToPlaylist failed with %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, path, nil)
	var got struct {
		Playlist domain.Playlist `json:"playlist"`
	}
	decode(t, rec, &got)
	if got.Playlist.Name != "Better Mix" || len(got.Playlist.Tracks) != 1 {
		t.Errorf("Unexpected playlist %+v", got.Playlist)
	}
	if got.Playlist.Image == "" {
		t.Error("Playlist image should resolve to a fallback")
	}

	if rec := doJSON(t, r, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("DeletePlaylist failed with %d", rec.Code)
	}

	// The liked-songs playlist is protected.
	if rec := doJSON(t, r, http.MethodDelete, "/api/playlists/0", nil); rec.Code != http.StatusForbidden {
		t.Errorf("Deleting playlist 0 should be forbidden, got %d", rec.Code)
	}
}

func TestPlayerRoutes(t *testing.T) {
	r, _ := setupAPI(t)

	queue := []domain.Song{
		{ID: "t1", Title: "Track 1"},
		{ID: "t2", Title: "Track 2"},
	}
	rec := doJSON(t, r, http.MethodPost, "/api/player/queue", map[string]interface{}{
		"songs":      queue,
		"startIndex": 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("SetQueue failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/player/play", map[string]interface{}{"index": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("Play failed with %d: %s", rec.Code, rec.Body.String())
	}
	var st player.Status
	decode(t, rec, &st)
	if st.CurrentSong == nil || st.CurrentSong.ID != "t1" || !st.IsPlaying {
		t.Errorf("Unexpected status %+v", st)
	}

	if rec := doJSON(t, r, http.MethodPost, "/api/player/pause", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("Pause failed with %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodPost, "/api/player/resume", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("Resume failed with %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/player/next", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Next failed with %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &st)
	if st.CurrentSong == nil || st.CurrentSong.ID != "t2" {
		t.Errorf("Unexpected status after next %+v", st)
	}

	// End of queue without repeat.
	if rec := doJSON(t, r, http.MethodPost, "/api/player/next", nil); rec.Code != http.StatusConflict {
		t.Errorf("Next at the end should conflict, got %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodPost, "/api/player/repeat", map[string]string{"mode": "sideways"}); rec.Code != http.StatusBadRequest {
		t.Errorf("Invalid repeat mode should be rejected, got %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodPost, "/api/player/repeat", map[string]string{"mode": "all"}); rec.Code != http.StatusNoContent {
		t.Errorf("Setting repeat all failed with %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/player/queue/5", nil); rec.Code != http.StatusConflict {
		t.Errorf("Out-of-range removal should conflict, got %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/player/queue", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("ClearQueue failed with %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/player/", nil)
	st = player.Status{}
	decode(t, rec, &st)
	if len(st.Queue) != 0 || st.CurrentIndex != -1 || st.CurrentSong != nil {
		t.Errorf("Unexpected status after clear %+v", st)
	}
}
