package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
)

var ErrorURLNotFound = errors.New("URL not found")

func getResp(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}

	req.Header.Set("User-Agent", clientAgent)

	return GetHTTPClient().Do(req) //nolint:gosec // G107: URL is an explicit user supplied data source
}

// Download saves the content of url into filepath.
func Download(ctx context.Context, url string, filepath string) (retErr error) {
	resp, err := getResp(ctx, url)
	if err != nil {
		return fmt.Errorf("error executing HTTP Get request: %w", err)
	}
	defer resp.Body.Close()
	PrintHTTPResponse(resp)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrorURLNotFound, url)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading file (status: %d - %s): %s", resp.StatusCode, resp.Status, url)
	}

	out, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", filepath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("error saving downloaded content to file: %w", err)
	}

	slog.Debug("downloaded", "url", url, "path", filepath, "bytes", n)
	return nil
}

// DownloadTemp downloads url into a new temp file. The caller removes it
// by invoking the returned cleanup func.
func DownloadTemp(ctx context.Context, url string) (string, func(), error) {
	f, err := os.CreateTemp("", "rocauc-*-"+path.Base(url))
	if err != nil {
		return "", nil, fmt.Errorf("error creating temp file: %w", err)
	}
	name := f.Name()
	f.Close()

	cleanup := func() {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Debug("error removing temp file", "path", name, "error", err)
		}
	}

	if err := Download(ctx, url, name); err != nil {
		cleanup()
		return "", nil, err
	}

	return name, cleanup, nil
}
