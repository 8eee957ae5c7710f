package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/rs/zerolog"

	"itube-transcoder/constant"
)

// SHA-256 of an empty body; neither status call carries a payload.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// ErrVideoNotFound means the backend has no video registered for the source key.
var ErrVideoNotFound = errors.New("no video registered for source key")

// StatusError wraps a failed lookup or report call against the status backend.
type StatusError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status backend %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("status backend %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Client talks to the video tracking backend. Every request is SigV4-signed
// with credentials resolved from the ambient chain, so the worker authenticates
// as its service role without any static signing secret of its own.
type Client struct {
	baseURL    string
	service    string
	region     string
	creds      aws.CredentialsProvider
	signer     *v4.Signer
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(baseURL, service string, awsCfg aws.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		service:    service,
		region:     awsCfg.Region,
		creds:      awsCfg.Credentials,
		signer:     v4.NewSigner(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) signAndDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	creds, err := c.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve signing credentials: %w", err)
	}
	if err := c.signer.SignHTTP(ctx, creds, req, emptyPayloadHash, c.service, c.region, c.now().UTC()); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	return c.httpClient.Do(req)
}

// LookupVideoID resolves the backend id of the video stored under sourceKey.
func (c *Client) LookupVideoID(ctx context.Context, sourceKey string) (string, error) {
	endpoint := fmt.Sprintf("%s/videos/by-key/%s", c.baseURL, url.PathEscape(sourceKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &StatusError{Op: "lookup", Err: err}
	}

	resp, err := c.signAndDo(ctx, req)
	if err != nil {
		return "", &StatusError{Op: "lookup", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &StatusError{Op: "lookup", StatusCode: resp.StatusCode, Err: ErrVideoNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Op: "lookup", StatusCode: resp.StatusCode}
	}

	var payload struct {
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &StatusError{Op: "lookup", Err: err}
	}
	if payload.VideoID == "" {
		return "", &StatusError{Op: "lookup", Err: ErrVideoNotFound}
	}
	return payload.VideoID, nil
}

// ReportStatus records the terminal processing state for a backend video id.
func (c *Client) ReportStatus(ctx context.Context, videoID string, status constant.ProcessingStatus) error {
	endpoint := fmt.Sprintf("%s/videos/%s/status?status=%s", c.baseURL, url.PathEscape(videoID), status)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, nil)
	if err != nil {
		return &StatusError{Op: "report", Err: err}
	}

	resp, err := c.signAndDo(ctx, req)
	if err != nil {
		return &StatusError{Op: "report", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Op: "report", StatusCode: resp.StatusCode}
	}
	return nil
}

// UpdateProcessingStatus resolves the backend id for sourceKey and reports
// status. When the lookup fails the report call is never attempted.
func (c *Client) UpdateProcessingStatus(ctx context.Context, sourceKey string, status constant.ProcessingStatus) error {
	videoID, err := c.LookupVideoID(ctx, sourceKey)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", videoID).
		Str("status", status.String()).
		Msg("reporting processing status")
	return c.ReportStatus(ctx, videoID, status)
}
