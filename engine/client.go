// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nemo-testbed/slice-manager/configmodels"
)

// ConfigClient is the configuration-API surface the engine drives. The
// HTTP implementation is replaced by a fake in tests.
type ConfigClient interface {
	FetchMonitoringReport(ctx context.Context, imsi string, window time.Duration) (*configmodels.MonitoringReport, error)
	PutSubscriptionProfile(ctx context.Context, profile *configmodels.SubscriptionProfile) error
	PostSliceInstance(ctx context.Context, slice *configmodels.SliceInstance) error
	PutSubscriber(ctx context.Context, subscriber *configmodels.Subscriber) error
	DeleteSliceInstance(ctx context.Context, sliceName string) error
}

type httpConfigClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPConfigClient returns a ConfigClient talking to the Admission API
// at baseURL. Every request carries the bounded timeout; a timeout is a
// recoverable per-cycle failure, never fatal to the loop.
func NewHTTPConfigClient(baseURL string, timeout time.Duration) ConfigClient {
	return &httpConfigClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchMonitoringReport queries the derived metrics over the trailing
// window. The window end lags wall clock by a few seconds so the report
// generator never sees a future timestamp.
func (h *httpConfigClient) FetchMonitoringReport(ctx context.Context, imsi string, window time.Duration) (*configmodels.MonitoringReport, error) {
	end := time.Now().UTC().Add(-3 * time.Second).Truncate(time.Second)
	start := end.Add(-window)

	params := url.Values{}
	params.Set("report-type", "ue-usage")
	params.Set("tgt_ue", "imsi-"+imsi)
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1.0/usage-report?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	var report configmodels.MonitoringReport
	if err = json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (h *httpConfigClient) PutSubscriptionProfile(ctx context.Context, profile *configmodels.SubscriptionProfile) error {
	return h.doJSON(ctx, http.MethodPut, "/api/v1.0/subscription-profile/"+profile.ProfileId, profile)
}

func (h *httpConfigClient) PostSliceInstance(ctx context.Context, slice *configmodels.SliceInstance) error {
	return h.doJSON(ctx, http.MethodPost, "/api/v1.0/slice-instance", slice)
}

func (h *httpConfigClient) PutSubscriber(ctx context.Context, subscriber *configmodels.Subscriber) error {
	return h.doJSON(ctx, http.MethodPut, "/api/v1.0/subscribers/"+subscriber.Imsi, subscriber)
}

func (h *httpConfigClient) DeleteSliceInstance(ctx context.Context, sliceName string) error {
	return h.doJSON(ctx, http.MethodDelete, "/api/v1.0/slice-instance/"+sliceName, nil)
}

func (h *httpConfigClient) doJSON(ctx context.Context, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
		return fmt.Errorf("api status %d: %s", resp.StatusCode, detail.Detail)
	}
	return fmt.Errorf("api status %d", resp.StatusCode)
}
