package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"hostmon/errors"
	"hostmon/models"
)

type Sender struct {
	apiURL  string
	apiKey  string
	version string
	client  *http.Client
}

func NewSender(apiURL, apiKey, version string) *Sender {
	return &Sender{
		apiURL:  apiURL,
		apiKey:  apiKey,
		version: version,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Agent   string `json:"agent"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	// Interval is the reporting interval in seconds the server asks for
	Interval int `json:"interval,omitempty"`
}

// SendReport posts the report and returns the interval requested by the
// server, or zero when it did not ask for one.
func (s *Sender) SendReport(ctx context.Context, report *models.Report) (time.Duration, error) {
	data, err := json.Marshal(report.ToPayload())
	if err != nil {
		return 0, errors.Report("failed to marshal payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return 0, errors.Report("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)
	req.Header.Set("User-Agent", "hostmon/"+s.version)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, errors.Report("failed to send request", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		var apiResp APIResponse
		if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error != "" {
			return 0, errors.Report(fmt.Sprintf("API error (%d): %s [%s]", resp.StatusCode, apiResp.Error, apiResp.Code), nil)
		}
		return 0, errors.Report(fmt.Sprintf("API error (%d): %s", resp.StatusCode, string(body)), nil)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Success {
		log.Debug().Str("agent", apiResp.Agent).Msg("report sent")
		if apiResp.Interval > 0 {
			return time.Duration(apiResp.Interval) * time.Second, nil
		}
	}

	return 0, nil
}
