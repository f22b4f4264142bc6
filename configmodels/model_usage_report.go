// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configmodels

// UsageReport is the raw per-UE usage summary over a time window.
type UsageReport struct {
	TimeWindow TimeWindow   `json:"time_window"`
	Summary    UsageSummary `json:"summary"`
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type UsageSummary struct {
	TotalUplinkBytes   int64 `json:"total_uplink_bytes"`
	TotalDownlinkBytes int64 `json:"total_downlink_bytes"`
}

// MonitoringReport is the derived presentation consumed by the traffic
// classifier: four named throughput/byte metrics plus the window end.
type MonitoringReport struct {
	SentThrpMbps     float64 `json:"URLLC_Sent_thrp_Mbps"`
	BytesSent        int64   `json:"URLLC_BytesSent"`
	BytesReceived    int64   `json:"URLLC_BytesReceived"`
	ReceivedThrpMbps float64 `json:"URLLC_Received_thrp_Mbps"`
	Timestamp        string  `json:"timestamp"`
}
