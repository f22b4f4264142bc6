// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/nemo-testbed/slice-manager/configmodels"
)

func TestGenerateUsageReport_Validation(t *testing.T) {
	router := setupTestRouter()
	admitTestSubscriber(t, router, "999991000000001", "")

	testCases := []struct {
		name         string
		reportType   string
		tgtUe        string
		start        string
		end          string
		expectedKind ErrorKind
	}{
		{
			name:         "unsupported report type",
			reportType:   "cell-usage",
			tgtUe:        "imsi-999991000000001",
			start:        "2026-08-30T10:00:00Z",
			end:          "2026-08-30T10:25:00Z",
			expectedKind: ErrorNotFound,
		},
		{
			name:         "missing imsi prefix",
			reportType:   "ue-usage",
			tgtUe:        "999991000000001",
			start:        "2026-08-30T10:00:00Z",
			end:          "2026-08-30T10:25:00Z",
			expectedKind: ErrorBadRequest,
		},
		{
			name:         "unknown subscriber",
			reportType:   "ue-usage",
			tgtUe:        "imsi-999991000000009",
			start:        "2026-08-30T10:00:00Z",
			end:          "2026-08-30T10:25:00Z",
			expectedKind: ErrorNotFound,
		},
		{
			name:         "unparseable time",
			reportType:   "ue-usage",
			tgtUe:        "imsi-999991000000001",
			start:        "yesterday",
			end:          "2026-08-30T10:25:00Z",
			expectedKind: ErrorBadRequest,
		},
		{
			name:         "end equals start",
			reportType:   "ue-usage",
			tgtUe:        "imsi-999991000000001",
			start:        "2026-08-30T10:00:00Z",
			end:          "2026-08-30T10:00:00Z",
			expectedKind: ErrorInvalidTimeWindow,
		},
		{
			name:         "end before start",
			reportType:   "ue-usage",
			tgtUe:        "imsi-999991000000001",
			start:        "2026-08-30T10:25:00Z",
			end:          "2026-08-30T10:00:00Z",
			expectedKind: ErrorInvalidTimeWindow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, serr := GenerateUsageReport(tc.reportType, tc.tgtUe, tc.start, tc.end)
			if serr == nil {
				t.Fatalf("expected a failure")
			}
			if serr.Kind != tc.expectedKind {
				t.Errorf("expected kind %v, got %v (%v)", tc.expectedKind, serr.Kind, serr.Reason)
			}
		})
	}
}

func TestGenerateUsageReport_Totals(t *testing.T) {
	router := setupTestRouter()
	admitTestSubscriber(t, router, "999991000000001", "")

	report, serr := GenerateUsageReport("ue-usage", "imsi-999991000000001", "2026-08-30T10:00:00Z", "2026-08-30T10:25:00Z")
	if serr != nil {
		t.Fatalf("unexpected failure: %v", serr)
	}
	imsiLen := int64(len("999991000000001"))
	if report.Summary.TotalUplinkBytes != imsiLen*12345 {
		t.Errorf("expected uplink total %d, got %d", imsiLen*12345, report.Summary.TotalUplinkBytes)
	}
	if report.Summary.TotalDownlinkBytes != imsiLen*23456 {
		t.Errorf("expected downlink total %d, got %d", imsiLen*23456, report.Summary.TotalDownlinkBytes)
	}

	again, serr := GenerateUsageReport("ue-usage", "imsi-999991000000001", "2026-08-30T10:00:00Z", "2026-08-30T10:25:00Z")
	if serr != nil {
		t.Fatalf("unexpected failure: %v", serr)
	}
	if *again != *report {
		t.Errorf("expected identical reports for the same window")
	}
}

func TestDeriveMonitoringReport_PinnedScale(t *testing.T) {
	prev := SetMonitoringScale(func() int64 { return 2 })
	defer SetMonitoringScale(prev)

	report := &configmodels.UsageReport{
		TimeWindow: configmodels.TimeWindow{
			Start: "2026-08-30T10:00:00Z",
			End:   "2026-08-30T10:00:10Z",
		},
		Summary: configmodels.UsageSummary{
			TotalUplinkBytes:   1000,
			TotalDownlinkBytes: 2000,
		},
	}
	metrics, serr := DeriveMonitoringReport(report)
	if serr != nil {
		t.Fatalf("unexpected failure: %v", serr)
	}
	if metrics.BytesSent != 2000 {
		t.Errorf("expected sent bytes 2000, got %d", metrics.BytesSent)
	}
	if metrics.BytesReceived != 4000 {
		t.Errorf("expected received bytes 4000, got %d", metrics.BytesReceived)
	}
	// 2000 bytes * 8 bits / 10 s / 1e6 * 2 * 100
	if metrics.SentThrpMbps != 0.32 {
		t.Errorf("expected sent throughput 0.32 Mbps, got %v", metrics.SentThrpMbps)
	}
	// 4000 bytes * 8 bits / 10 s / 1e6 * 2 * 20
	if metrics.ReceivedThrpMbps != 0.128 {
		t.Errorf("expected received throughput 0.128 Mbps, got %v", metrics.ReceivedThrpMbps)
	}
	if metrics.Timestamp != "2026-08-30T10:00:10Z" {
		t.Errorf("expected window end timestamp, got %v", metrics.Timestamp)
	}
}

func TestGetUsageReport_Formats(t *testing.T) {
	router := setupTestRouter()
	admitTestSubscriber(t, router, "999991000000001", "")
	target := "/api/v1.0/usage-report?report-type=ue-usage&tgt_ue=imsi-999991000000001&start=2026-08-30T10:00:00Z&end=2026-08-30T10:25:00Z"

	w := doRequest(router, http.MethodGet, target, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected %v, got %v (body %v)", http.StatusOK, w.Code, w.Body.String())
	}
	var metrics configmodels.MonitoringReport
	if err := json.Unmarshal(w.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("failed to parse metrics: %v", err)
	}
	if metrics.BytesSent == 0 || metrics.Timestamp == "" {
		t.Errorf("unexpected metrics: %+v", metrics)
	}

	w = doRequest(router, http.MethodGet, target+"&format=csv", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected %v, got %v", http.StatusOK, w.Code)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one data row, got %d lines", len(lines))
	}
	if lines[0] != "URLLC_Sent_thrp_Mbps,URLLC_BytesSent,URLLC_BytesReceived,URLLC_Received_thrp_Mbps,timestamp" {
		t.Errorf("unexpected CSV header: %v", lines[0])
	}
	if len(strings.Split(lines[1], ",")) != 5 {
		t.Errorf("expected 5 CSV fields, got %v", lines[1])
	}

	w = doRequest(router, http.MethodGet,
		"/api/v1.0/usage-report?report-type=ue-usage&tgt_ue=imsi-999991000000001&start=2026-08-30T10:25:00Z&end=2026-08-30T10:00:00Z", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected %v for inverted window, got %v", http.StatusBadRequest, w.Code)
	}
}
