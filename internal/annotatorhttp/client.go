// Package annotatorhttp talks to a remote tagging and lemmatization service
// over JSON.
//
//	POST {base}/tag        {"words": [...]}  ->  {"tokens": [{"tag", "idx", "len"}]}
//	POST {base}/lemmatize  {"words": [...]}  ->  {"lemmas": [...]}
//
// Token offsets from the service count characters in the space-joined words;
// the client converts them to byte offsets.
package annotatorhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cognicore/preproc/pkg/preproc/annotate"
	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// DefaultTimeout applies when HTTPClient is nil.
const DefaultTimeout = 15 * time.Second

// Client is an annotate.Annotator backed by a remote service.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
}

var _ annotate.Annotator = (*Client)(nil)

type wordsRequest struct {
	Words []string `json:"words"`
}

type tagResponse struct {
	Tokens []struct {
		Tag string `json:"tag"`
		Idx int    `json:"idx"`
		Len int    `json:"len"`
	} `json:"tokens"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type lemmaResponse struct {
	Lemmas []string `json:"lemmas"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// New returns a client for baseURL with the given timeout. A zero timeout
// means DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Tag requests one annotation per token of the joined words. A token whose
// offset lies outside the input is returned with Offset -1 so the caller can
// skip it; a token running past the end is clipped to the input.
func (c *Client) Tag(ctx context.Context, words []string) ([]annotate.Annotation, error) {
	var payload tagResponse
	if err := c.send(ctx, "/tag", words, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("%w: tag: %s", internalerr.ErrAnnotatorUnavailable, payload.Error.Message)
	}

	offsets := byteOffsets(strings.Join(words, " "))
	anns := make([]annotate.Annotation, 0, len(payload.Tokens))
	for _, tok := range payload.Tokens {
		start, ok := at(offsets, tok.Idx)
		if !ok {
			anns = append(anns, annotate.Annotation{Tag: tok.Tag, Offset: -1})
			continue
		}
		end, ok := at(offsets, tok.Idx+tok.Len)
		if !ok {
			end = offsets[len(offsets)-1]
		}
		anns = append(anns, annotate.Annotation{Tag: tok.Tag, Offset: start, Length: end - start})
	}
	return anns, nil
}

// Lemmatize requests one lemma per word.
func (c *Client) Lemmatize(ctx context.Context, words []string) ([]string, error) {
	var payload lemmaResponse
	if err := c.send(ctx, "/lemmatize", words, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("%w: lemmatize: %s", internalerr.ErrAnnotatorUnavailable, payload.Error.Message)
	}
	return payload.Lemmas, nil
}

func (c *Client) send(ctx context.Context, path string, words []string, out any) error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: annotator: base URL required", internalerr.ErrInvalidConfig)
	}
	reqBody, err := json.Marshal(wordsRequest{Words: words})
	if err != nil {
		return err
	}
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrAnnotatorUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", internalerr.ErrAnnotatorUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// byteOffsets maps character index i to its byte offset in s. The final entry
// is len(s).
func byteOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func at(offsets []int, idx int) (int, bool) {
	if idx < 0 || idx >= len(offsets) {
		return 0, false
	}
	return offsets[idx], true
}
