// Package remote fetches files from the Pfam distribution over HTTP(S).
// There is no retry; timeouts are whatever the supplied http.Client applies.
package remote

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kamusis/pfam-cli/internal/report"
)

// ErrNotFound is returned when the remote answers 404.
var ErrNotFound = errors.New("remote file not found")

const userAgent = "pfam-cli"

// Client fetches remote resources.
type Client struct {
	HTTP     *http.Client
	Reporter report.Reporter
}

// NewClient returns a Client using http.DefaultClient when hc is nil.
func NewClient(hc *http.Client, rep report.Reporter) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if rep == nil {
		rep = report.Discard
	}
	return &Client{HTTP: hc, Reporter: rep}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("'%s' returned 404 Not Found: %w", url, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		resp.Body.Close()
		return nil, fmt.Errorf("request %s failed: %s\n%s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// Fetch returns the remote file at url as text, gunzipping it first when
// compressed is set.
func (c *Client) Fetch(ctx context.Context, url string, compressed bool) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", url, err)
	}
	if !compressed {
		return string(body), nil
	}
	gzr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("cannot decompress %s: %w", url, err)
	}
	defer gzr.Close()
	text, err := io.ReadAll(gzr)
	if err != nil {
		return "", fmt.Errorf("cannot decompress %s: %w", url, err)
	}
	return string(text), nil
}

// Download streams url into dest. Bytes land in dest+".part" and are renamed
// into place only after the transfer completes.
func (c *Client) Download(ctx context.Context, url, dest string) (int64, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", part, err)
	}

	total := resp.ContentLength
	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return downloaded, fmt.Errorf("write failed: %w", werr)
			}
			downloaded += int64(n)
			c.Reporter.Progress("Downloading", downloaded, total)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			out.Close()
			c.Reporter.ProgressDone()
			return downloaded, fmt.Errorf("download read failed: %w", rerr)
		}
	}
	c.Reporter.ProgressDone()
	if err := out.Close(); err != nil {
		return downloaded, fmt.Errorf("cannot close %s: %w", part, err)
	}
	if err := os.Rename(part, dest); err != nil {
		return downloaded, fmt.Errorf("cannot move %s into place: %w", dest, err)
	}
	return downloaded, nil
}
