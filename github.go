package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

type githubContentItem struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	Type        string `json:"type"` // "file" or "dir"
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

// ListResultFiles returns the names of .csv files under the configured folder,
// via the GitHub contents API. A single best-effort request, no pagination: the
// contents API returns the whole directory listing in one response.
func ListResultFiles(cfg Config) ([]string, error) {
	body, err := githubGet(cfg, contentsURL(cfg, ""))
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s/%s: %w", cfg.GitHubOwner, cfg.GitHubRepo, cfg.FolderPath, err)
	}

	var items []githubContentItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parsing listing response: %w", err)
	}

	var names []string
	for _, item := range items {
		if item.Type != "" && item.Type != "file" {
			continue
		}
		if strings.HasSuffix(item.Name, ".csv") {
			names = append(names, item.Name)
		}
	}
	log.Printf("github list folder=%s files=%d csv=%d", cfg.FolderPath, len(items), len(names))
	return names, nil
}

// FetchFileContent retrieves one file through the contents API and decodes its
// base64 payload to UTF-8 bytes.
func FetchFileContent(cfg Config, fileName string) ([]byte, error) {
	body, err := githubGet(cfg, contentsURL(cfg, fileName))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", fileName, err)
	}

	var item githubContentItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("parsing content response for %s: %w", fileName, err)
	}

	// GitHub wraps base64 content at 60 columns; the decoder rejects the
	// embedded newlines unless they are stripped first.
	raw := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, item.Content)

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fileName, err)
	}
	return decoded, nil
}

func contentsURL(cfg Config, fileName string) string {
	apiURL := fmt.Sprintf("%s/%s/%s/contents/%s", cfg.APIBaseURL, cfg.GitHubOwner, cfg.GitHubRepo, cfg.FolderPath)
	if fileName != "" {
		apiURL += "/" + url.PathEscape(fileName)
	}
	return apiURL
}

func githubGet(cfg Config, apiURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
