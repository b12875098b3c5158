// Package registry is the package-index client: existence queries against the
// index JSON API, artifact uploads against the legacy upload endpoint, and
// the post-publish verification read.
package registry

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/VoxDroid/relgate/internal/gate"
)

// Client talks to one package index for one project. The token is an explicit
// value supplied at construction; the client never reads the environment.
type Client struct {
	Project   string
	IndexURL  string // e.g. https://pypi.org/pypi
	UploadURL string // e.g. https://upload.pypi.org/legacy/
	Token     string
	DistDir   string
	HTTP      *http.Client

	// VerifyTries and VerifyInterval bound the post-publish confirmation
	// reads. Zero values fall back to the defaults below.
	VerifyTries    uint
	VerifyInterval time.Duration
}

const (
	defaultVerifyTries    = 5
	defaultVerifyInterval = 2 * time.Second
)

func (c *Client) http() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Preflight reports whether the client is able to publish at all. It makes no
// network calls; the gatekeeper runs it before creating the tag so a missing
// token cannot leave a tag behind for an unpublished version.
func (c *Client) Preflight() error {
	if c.Token == "" {
		return &gate.ConfigError{Reason: "publish token is not set"}
	}
	return nil
}

// IsPublished reports whether the index already has this version of the
// project. 404 means "not published"; any other non-200 status is an error.
func (c *Client) IsPublished(ctx context.Context, version string) (bool, error) {
	url := fmt.Sprintf("%s/%s/%s/json", strings.TrimRight(c.IndexURL, "/"), c.Project, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http().Do(req)
	if err != nil {
		return false, fmt.Errorf("query index: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("query index: unexpected status %s", resp.Status)
	}
}

// Publish uploads every artifact in DistDir for the given version. Each file
// is one multipart POST against the legacy upload API, authenticated as
// __token__. Failures wrap into *gate.PublishError.
func (c *Client) Publish(ctx context.Context, version string) error {
	// Direct `relgate publish` invocations skip the gatekeeper, so the
	// credential check runs here as well.
	if err := c.Preflight(); err != nil {
		return err
	}
	files, err := c.artifacts()
	if err != nil {
		return &gate.PublishError{Version: version, Err: err}
	}
	if len(files) == 0 {
		return &gate.PublishError{Version: version, Err: fmt.Errorf("no artifacts in %s", c.DistDir)}
	}
	for _, f := range files {
		if err := c.uploadFile(ctx, version, f); err != nil {
			return &gate.PublishError{Version: version, Err: err}
		}
	}
	return nil
}

// VerifyPublished polls IsPublished with exponential backoff until the
// version is visible or the bounded tries are exhausted. Exhaustion yields a
// *gate.PublishVerificationError: upload acceptance without index visibility
// must never be reported as a successful publish.
func (c *Client) VerifyPublished(ctx context.Context, version string) error {
	tries := c.VerifyTries
	if tries == 0 {
		tries = defaultVerifyTries
	}
	interval := c.VerifyInterval
	if interval == 0 {
		interval = defaultVerifyInterval
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	bo.MaxInterval = 10 * time.Second

	check := func() (bool, error) {
		ok, err := c.IsPublished(ctx, version)
		if err != nil {
			return false, backoff.Permanent(err)
		}
		if !ok {
			return false, fmt.Errorf("version %s not visible yet", version)
		}
		return true, nil
	}
	if _, err := backoff.Retry(ctx, check, backoff.WithBackOff(bo), backoff.WithMaxTries(tries)); err != nil {
		return &gate.PublishVerificationError{Version: version, Err: err}
	}
	return nil
}

func (c *Client) artifacts() ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.whl", "*.tar.gz"} {
		matches, err := filepath.Glob(filepath.Join(c.DistDir, pattern))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

func (c *Client) uploadFile(ctx context.Context, version, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(content)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		":action":          "file_upload",
		"protocol_version": "1",
		"name":             c.Project,
		"version":          version,
		"filetype":         filetype(path),
		"sha256_digest":    hex.EncodeToString(digest[:]),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	fw, err := w.CreateFormFile("content", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := fw.Write(content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth("__token__", c.Token)

	resp, err := c.http().Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload %s: %s: %s", filepath.Base(path), resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

func filetype(path string) string {
	if strings.HasSuffix(path, ".whl") {
		return "bdist_wheel"
	}
	return "sdist"
}
