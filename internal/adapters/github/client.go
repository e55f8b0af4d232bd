// Package github talks to the GitHub REST and raw content endpoints to list
// formula repository tags and fetch formula metadata without cloning.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/metadata"
	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	// tagPageSize is deliberately oversized; formula repositories carry far
	// fewer tags than one page.
	tagPageSize = 1000
)

// tag is the wire shape of one entry of the tags listing.
type tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Client implements ports.TagService and ports.MetadataSource against the
// GitHub API. Tag listings are cached per repository for the lifetime of the
// client, so one run hits each repository at most once.
type Client struct {
	httpClient *http.Client
	apiBase    string
	rawBase    string
	token      string
	log        ports.Logger

	mu   sync.Mutex
	tags map[domain.FormulaKey][]tag
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets the API token used for basic auth. An empty token leaves
// requests unauthenticated.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithBaseURLs overrides the API and raw content endpoints.
func WithBaseURLs(apiBase, rawBase string) Option {
	return func(c *Client) {
		c.apiBase = apiBase
		c.rawBase = rawBase
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a GitHub client.
func NewClient(log ports.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    defaultAPIBase,
		rawBase:    defaultRawBase,
		log:        log,
		tags:       map[domain.FormulaKey][]tag{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTags returns the names of every tag on the formula's repository.
func (c *Client) ListTags(ctx context.Context, key domain.FormulaKey) ([]string, error) {
	tags, err := c.repositoryTags(ctx, key)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}

// ResolveTag returns the commit the named tag points at.
func (c *Client) ResolveTag(ctx context.Context, key domain.FormulaKey, name string) (string, error) {
	tags, err := c.repositoryTags(ctx, key)
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if t.Name == name {
			return t.Commit.SHA, nil
		}
	}
	return "", zerr.With(zerr.With(domain.ErrNoMatchingTag, "tag", name), "formula", key.String())
}

// FetchMetadata fetches the formula's metadata.yml from the raw content
// endpoint, pinned to the highest release tag when one exists and to the
// default branch otherwise. A repository without a metadata file is a valid
// formula with no dependencies.
func (c *Client) FetchMetadata(ctx context.Context, key domain.FormulaKey) (*domain.FormulaMetadata, error) {
	ref, err := c.metadataRef(ctx, key)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, key.Organisation, key.Name, ref, metadata.FileName)
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, zerr.With(err, "formula", key.String())
	}
	if status == http.StatusNotFound {
		c.log.Debug("no metadata file on " + key.String() + "@" + ref)
		return &domain.FormulaMetadata{Key: key}, nil
	}
	if status != http.StatusOK {
		err := zerr.With(zerr.New("unexpected status fetching metadata"), "status", status)
		return nil, zerr.With(err, "formula", key.String())
	}

	meta, err := metadata.Parse(body)
	if err != nil {
		return nil, zerr.With(err, "formula", key.String())
	}
	meta.Key = key
	return meta, nil
}

// metadataRef picks the ref to read metadata from: the highest release tag,
// falling back to the default branch for repositories without releases.
func (c *Client) metadataRef(ctx context.Context, key domain.FormulaKey) (string, error) {
	tags, err := c.repositoryTags(ctx, key)
	if err != nil {
		return "", err
	}
	best := ""
	for _, t := range tags {
		v := domain.Version(t.Name)
		if !v.IsRelease() {
			continue
		}
		if best == "" || domain.Version(best).Less(v) {
			best = t.Name
		}
	}
	if best == "" {
		return "master", nil
	}
	return best, nil
}

// repositoryTags lists the repository's tags, serving repeats from the cache.
func (c *Client) repositoryTags(ctx context.Context, key domain.FormulaKey) ([]tag, error) {
	c.mu.Lock()
	cached, ok := c.tags[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d", c.apiBase, key.Organisation, key.Name, tagPageSize)
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, zerr.With(err, "formula", key.String())
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, zerr.With(domain.ErrFormulaNotFound, "formula", key.String())
	default:
		err := zerr.With(zerr.New("unexpected status listing tags"), "status", status)
		return nil, zerr.With(err, "formula", key.String())
	}

	var tags []tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode tag listing"), "formula", key.String())
	}

	c.mu.Lock()
	c.tags[key] = tags
	c.mu.Unlock()
	c.log.Debug(fmt.Sprintf("listed %d tags on %s", len(tags), key.String()))
	return tags, nil
}

// get performs one GET and returns the body and status. Non-2xx statuses are
// not errors at this level; callers decide what each status means.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, zerr.Wrap(err, "failed to build request")
	}
	if c.token != "" {
		req.SetBasicAuth(c.token, "x-oauth-basic")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, zerr.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, zerr.Wrap(err, "failed to read response body")
	}
	return body, resp.StatusCode, nil
}
