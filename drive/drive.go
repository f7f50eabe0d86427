// Package drive uploads the combined KML to Google Drive so it can be
// imported into Google My Maps. Credentials live in a fixed well-known
// location: <user config dir>/mapmerge/credentials.json (an OAuth client
// secret from the Google Cloud console), with the granted token cached
// next to it in token.json.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const mimeKML = "application/vnd.google-earth.kml+xml"

// ErrUpload wraps all upload failures. Fatal only when the caller asked
// for an upload; the local output file is retained either way.
var ErrUpload = errors.New("drive upload error")

type Client struct {
	srv *gdrive.Service
}

// ConfigDir returns the well-known credentials directory, creating it if
// needed.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding user config dir: %w", err)
	}
	dir := filepath.Join(base, "mapmerge")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating config dir %q: %w", dir, err)
	}
	return dir, nil
}

// New builds an authenticated client from the credentials in dir. If no
// token is cached yet the user is walked through the OAuth consent flow
// on the terminal.
func New(ctx context.Context, dir string) (*Client, error) {
	credPath := filepath.Join(dir, "credentials.json")
	b, err := os.ReadFile(credPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secret %q: %w: %v", credPath, ErrUpload, err)
	}
	config, err := google.ConfigFromJSON(b, gdrive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret %q: %w: %v", credPath, ErrUpload, err)
	}

	tok, err := token(ctx, config, filepath.Join(dir, "token.json"))
	if err != nil {
		return nil, err
	}

	srv, err := gdrive.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w: %v", ErrUpload, err)
	}
	return &Client{srv: srv}, nil
}

// Upload sends the file at fpath to Drive under the given display name
// and returns the remote file ID.
func (c *Client) Upload(ctx context.Context, fpath, name string) (string, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return "", fmt.Errorf("opening %q for upload: %w: %v", fpath, ErrUpload, err)
	}
	defer f.Close()

	meta := &gdrive.File{Name: name, MimeType: mimeKML}
	created, err := c.srv.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeKML)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading %q: %w: %v", fpath, ErrUpload, err)
	}
	return created.Id, nil
}

// token loads the cached token, or runs the console consent flow and
// caches the result.
func token(ctx context.Context, config *oauth2.Config, tokPath string) (*oauth2.Token, error) {
	if tok, ok := cachedToken(tokPath); ok {
		return tok, nil
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w: %v", ErrUpload, err)
	}
	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w: %v", ErrUpload, err)
	}

	cacheToken(tokPath, tok)
	return tok, nil
}

// cachedToken reads a previously granted token. A missing or undecodable
// cache just means the user re-authorizes; it is never an error.
func cachedToken(tokPath string) (*oauth2.Token, bool) {
	b, err := os.ReadFile(tokPath)
	if err != nil {
		return nil, false
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, false
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, false
	}
	return &tok, true
}

// cacheToken writes the granted token next to the client secret. Failure
// to cache only costs a re-consent on the next run.
func cacheToken(tokPath string, tok *oauth2.Token) {
	b, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := os.WriteFile(tokPath, b, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: caching token to %q: %v\n", tokPath, err)
	}
}
