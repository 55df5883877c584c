package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/constants"
)

// ProgressStatus reports download progress. Bytes is monotonically
// non-decreasing; Total is -1 when the content length is unknown, in which
// case no percentage can be computed.
type ProgressStatus struct {
	Bytes int64
	Total int64
}

// Percent returns the completion percentage and whether one is available.
func (p ProgressStatus) Percent() (float64, bool) {
	if p.Total <= 0 {
		return 0, false
	}
	return float64(p.Bytes) / float64(p.Total) * 100, true
}

// ProgressFunc receives download progress updates.
type ProgressFunc func(ProgressStatus)

// Download fetches url into dest, reporting progress along the way. The
// transfer goes through a part file and is renamed into place only on
// success, so dest never holds a truncated asset. Unlike the lookup calls,
// failures here propagate: a pending playback transition must abort rather
// than commit a missing file.
func (c *Client) Download(ctx context.Context, rawURL, dest string, onProgress ProgressFunc) error {
	if err := assets.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	retries, backoff := c.http.RetryPolicy()
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.downloadOnce(ctx, rawURL, dest, onProgress); err != nil {
			lastErr = err
			c.log.Warn("Download attempt failed", "url", rawURL, "attempt", attempt+1, "error", err)
			time.Sleep(time.Duration(attempt+1) * backoff)
			continue
		}
		return nil
	}
	return fmt.Errorf("download failed after %d attempts: %w", retries, lastErr)
}

func (c *Client) downloadOnce(ctx context.Context, rawURL, dest string, onProgress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.GetUnderlyingClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	total := resp.ContentLength // -1 when unknown

	part := dest + "." + uuid.NewString() + ".part"
	f, err := assets.CreateFile(part)
	if err != nil {
		return fmt.Errorf("failed to create part file: %w", err)
	}

	written, err := copyWithProgress(f, resp.Body, total, onProgress)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = assets.RemoveFile(part)
		return fmt.Errorf("transfer failed after %d bytes: %w", written, err)
	}

	if err := assets.MoveFile(part, dest); err != nil {
		_ = assets.RemoveFile(part)
		return err
	}
	return nil
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) (int64, error) {
	var written int64
	var lastReported int64
	buf := make([]byte, 32*1024)

	report := func() {
		if onProgress != nil {
			onProgress(ProgressStatus{Bytes: written, Total: total})
			lastReported = written
		}
	}

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
			if written-lastReported >= constants.ProgressUpdateBytes {
				report()
			}
		}
		if rerr == io.EOF {
			report()
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
