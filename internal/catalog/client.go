// Package catalog is the gateway to the remote music catalog API: search,
// album lookup, stream-url resolution and asset download.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/domain"
	"github.com/reewhy/musicplayer/internal/httpclient"
	"github.com/reewhy/musicplayer/internal/logger"
)

// Client talks to the catalog HTTP API. Transport details stay inside this
// package; the queue engine only sees songs, albums, stream URLs and
// download results.
type Client struct {
	baseURL string
	http    *httpclient.Client
	log     *logger.Logger
}

func NewClient(baseURL string, hc *httpclient.Client, log *logger.Logger) *Client {
	if hc == nil {
		hc = httpclient.NewClient(nil, constants.MinRequestInterval)
	}
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    hc,
		log:     log.WithComponent("catalog"),
	}
}

// SearchTracks searches the catalog for tracks matching the query.
func (c *Client) SearchTracks(ctx context.Context, query string, offset int) ([]domain.Song, error) {
	u := fmt.Sprintf("%s/search?q=%s&offset=%d&type=track", c.baseURL, url.QueryEscape(query), offset)

	var resp tracksResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// SearchAlbums searches the catalog for albums matching the query.
func (c *Client) SearchAlbums(ctx context.Context, query string, offset int) ([]domain.Album, error) {
	u := fmt.Sprintf("%s/search?q=%s&offset=%d&type=album", c.baseURL, url.QueryEscape(query), offset)

	var resp albumsResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

// GetAlbum fetches a single album, including its track listing.
func (c *Client) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	u := fmt.Sprintf("%s/album?albumId=%s", c.baseURL, url.QueryEscape(id))

	var resp albumResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Album, nil
}

// GetStreamURL resolves the download URL for a track at the given quality
// level.
func (c *Client) GetStreamURL(ctx context.Context, trackID string, quality int) (string, error) {
	u := fmt.Sprintf("%s/stream?trackId=%s&quality=%d", c.baseURL, url.QueryEscape(trackID), quality)

	var resp streamResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("no stream url for track %s", trackID)
	}
	return resp.URL, nil
}

// FetchImage downloads an image and returns the raw bytes.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.GetUnderlyingClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
