package wallpaper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"windwall/logger"
)

// NewSource builds the source the config selects.
func NewSource(c *Config) Source {
	if c.SourceType == SourceHTTP {
		return &httpSource{
			URL:    c.SourceURL,
			Dst:    c.ImagePath,
			Client: &http.Client{Timeout: c.SourceTimeout},
		}
	}
	return fileSource{Path: c.ImagePath}
}

// fileSource is an image written by another program.
type fileSource struct {
	Path string
}

func (s fileSource) Fetch(context.Context) (string, error) {
	return s.Path, nil
}

// httpSource downloads URL to Dst.
type httpSource struct {
	URL    string
	Dst    string
	Client *http.Client
}

func (s *httpSource) Fetch(ctx context.Context) (string, error) {
	logger.Printf("[info download] %s", s.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", s.URL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", s.URL, res.Status)
	}

	if err := os.MkdirAll(filepath.Dir(s.Dst), 0755); err != nil {
		return "", err
	}
	// Write beside the target and rename so a watcher never sees half a file.
	f, err := os.CreateTemp(filepath.Dir(s.Dst), ".download-*")
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	tmp := f.Name()
	_, err = io.Copy(f, res.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := os.Rename(tmp, s.Dst); err != nil {
		os.Remove(tmp)
		return "", err
	}
	logger.Printf("[info download] saved %s", s.Dst)
	return s.Dst, nil
}
