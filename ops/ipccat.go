package ops

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/deepnoodle-ai/priorart/retry"
)

// IPCCATClient calls an IPCCAT-style classification service: the request is
// a small XML document carrying the text to classify, the response a list of
// ranked category predictions.
type IPCCATClient struct {
	baseURL     string
	client      *http.Client
	predictions int
	level       string
	maxRetries  int
}

// IPCCATOptions configures an IPCCATClient.
type IPCCATOptions struct {
	// BaseURL of the classification endpoint. Required.
	BaseURL string

	// HTTPClient to use. Defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	// Predictions is the number of predictions to request. Defaults to 5.
	Predictions int

	// Level is the classification hierarchy level to request. Defaults to
	// "SUBGROUP".
	Level string

	// MaxRetries is the number of retries for transient failures. Defaults
	// to 2.
	MaxRetries int
}

// NewIPCCATClient creates a classification client for the given endpoint.
func NewIPCCATClient(opts IPCCATOptions) (*IPCCATClient, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Predictions <= 0 {
		opts.Predictions = 5
	}
	if opts.Level == "" {
		opts.Level = "SUBGROUP"
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	return &IPCCATClient{
		baseURL:     opts.BaseURL,
		client:      opts.HTTPClient,
		predictions: opts.Predictions,
		level:       opts.Level,
		maxRetries:  opts.MaxRetries,
	}, nil
}

type ipccatRequest struct {
	XMLName     xml.Name `xml:"request"`
	Lang        string   `xml:"lang"`
	Text        string   `xml:"text"`
	Predictions int      `xml:"numberofpredictions"`
	Level       string   `xml:"hierarchiclevel"`
}

type ipccatPrediction struct {
	Rank     int    `xml:"rank"`
	Category string `xml:"category"`
	Score    int    `xml:"score"`
}

type ipccatResponse struct {
	Predictions []ipccatPrediction `xml:"prediction"`
}

// ClassifyText sends the summary to the classification service and returns
// the predicted IPC codes in rank order.
func (c *IPCCATClient) ClassifyText(ctx context.Context, summary string) ([]string, error) {
	body, err := xml.Marshal(ipccatRequest{
		Lang:        "en",
		Text:        summary,
		Predictions: c.predictions,
		Level:       c.level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification request: %w", err)
	}
	body = append([]byte(xml.Header), body...)

	var data []byte
	err = retry.Do(ctx, func() error {
		data, err = c.post(ctx, body)
		return err
	}, retry.WithMaxRetries(c.maxRetries), retry.WithBaseWait(500*time.Millisecond))
	if err != nil {
		return nil, err
	}

	var parsed ipccatResponse
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("classification service returned no predictions")
	}

	predictions := parsed.Predictions
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Rank < predictions[j].Rank
	})

	var codes []string
	seen := map[string]bool{}
	for _, prediction := range predictions {
		code := FormatIPCCode(prediction.Category)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("classification service returned no usable codes")
	}
	return codes, nil
}

// post sends one classification request. Server-side failures are marked
// recoverable so the caller's retry loop picks them up; client-side failures
// are not.
func (c *IPCCATClient) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, retry.NewNonRecoverableError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.NewRecoverableError(fmt.Errorf("failed to read classification response: %w", err))
	}
	if resp.StatusCode >= 500 {
		return nil, retry.NewRecoverableError(fmt.Errorf("classification service returned %s", resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retry.NewNonRecoverableError(fmt.Errorf("classification service returned %s", resp.Status))
	}
	return data, nil
}

// FormatIPCCode normalizes a raw classification category into the standard
// IPC notation, e.g. "G06N0020000000" becomes "G06N20/00".
func FormatIPCCode(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) < 4 {
		return raw
	}
	section := raw[0:1]
	class := raw[1:3]
	subclass := raw[3:4]
	if len(raw) < 8 {
		return section + class + subclass
	}
	mainGroup := strings.TrimLeft(raw[4:8], "0")
	if mainGroup == "" {
		mainGroup = "0"
	}
	subgroup := "00"
	if len(raw) > 8 {
		subgroup = raw[8:]
		if len(subgroup) > 2 {
			trimmed := strings.TrimRight(subgroup[2:], "0")
			subgroup = subgroup[:2] + trimmed
		}
	}
	return section + class + subclass + mainGroup + "/" + subgroup
}
