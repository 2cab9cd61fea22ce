package loaders

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// FileHTTP fetches document markup from HTTP(S) URLs and local files.
type FileHTTP struct {
	// SearchRoots are extra directories to try when resolving relative
	// locations.
	SearchRoots []string

	// Client is used for HTTP(S) requests; if nil, http.DefaultClient is
	// used.
	Client *http.Client
}

// Fetch loads the markup at location. Relative locations are resolved
// against the directory of sourcePath and then the search roots.
func (f *FileHTTP) Fetch(location, sourcePath string) (string, error) {
	if location == "" {
		return "", nil
	}

	resolved, err := ResolveDocumentPath(location, sourcePath, f.SearchRoots)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", location, err)
	}

	if strings.HasPrefix(resolved, "http://") || strings.HasPrefix(resolved, "https://") {
		return f.fetchFromWeb(resolved)
	}
	return f.fetchFromLocal(resolved)
}

func (f *FileHTTP) fetchFromWeb(url string) (content string, err error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned non-200 status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

func (f *FileHTTP) fetchFromLocal(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read local file: %w", err)
	}
	return string(content), nil
}
