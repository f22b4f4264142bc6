// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	usageReportType = "ue-usage"
	targetUePrefix  = "imsi-"
)

// scaleFunc supplies the synthesis factor applied to the byte counters.
// Injectable so tests can pin a deterministic value; the default mimics
// the testbed CPE simulator, which has no real metering behind it.
type scaleFunc func() int64

var monitoringScale scaleFunc = func() int64 {
	return int64(rand.Intn(9001) + 1000)
}

// SetMonitoringScale replaces the synthesis factor source. Returns the
// previous one so tests can restore it.
func SetMonitoringScale(fn scaleFunc) scaleFunc {
	prev := monitoringScale
	monitoringScale = fn
	return prev
}

// GenerateUsageReport builds the per-UE usage summary for a time window.
// The byte totals are a deterministic function of the IMSI so repeated
// queries over the same window agree.
func GenerateUsageReport(reportType, tgtUe, start, end string) (*configmodels.UsageReport, *ServiceError) {
	if reportType != usageReportType {
		return nil, notFound("Unsupported report-type")
	}
	if !strings.HasPrefix(tgtUe, targetUePrefix) {
		return nil, badRequest("tgt_ue must start with 'imsi-'")
	}
	imsi := strings.TrimPrefix(tgtUe, targetUePrefix)
	rawSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, bson.M{"imsi": imsi})
	if err != nil {
		return nil, upstreamUnavailable("failed to check subscriber")
	}
	if len(rawSubscriber) == 0 {
		return nil, notFound("Subscriber not found")
	}
	startTime, errStart := time.Parse(time.RFC3339, start)
	endTime, errEnd := time.Parse(time.RFC3339, end)
	if errStart != nil || errEnd != nil {
		return nil, badRequest("Invalid ISO time")
	}
	if !endTime.After(startTime) {
		return nil, invalidTimeWindow("'end' must be after 'start'")
	}
	return &configmodels.UsageReport{
		TimeWindow: configmodels.TimeWindow{
			Start: startTime.Format(time.RFC3339),
			End:   endTime.Format(time.RFC3339),
		},
		Summary: configmodels.UsageSummary{
			TotalUplinkBytes:   int64(len(imsi)) * 12345,
			TotalDownlinkBytes: int64(len(imsi)) * 23456,
		},
	}, nil
}

// DeriveMonitoringReport turns a usage summary into the four metrics the
// traffic classifier consumes, stamped with the window end. The scaling
// step synthesizes plausible magnitudes in place of real metering.
func DeriveMonitoringReport(report *configmodels.UsageReport) (*configmodels.MonitoringReport, *ServiceError) {
	startTime, errStart := time.Parse(time.RFC3339, report.TimeWindow.Start)
	endTime, errEnd := time.Parse(time.RFC3339, report.TimeWindow.End)
	if errStart != nil || errEnd != nil {
		return nil, badRequest("Invalid ISO time")
	}
	duration := endTime.Sub(startTime).Seconds()

	bytesSent := report.Summary.TotalUplinkBytes * monitoringScale()
	bytesReceived := report.Summary.TotalDownlinkBytes * monitoringScale()
	sentMbps := float64(bytesSent) * 8 / duration / 1_000_000 * float64(monitoringScale()) * 100
	receivedMbps := float64(bytesReceived) * 8 / duration / 1_000_000 * float64(monitoringScale()) * 20

	return &configmodels.MonitoringReport{
		SentThrpMbps:     roundTo6(sentMbps),
		BytesSent:        bytesSent,
		BytesReceived:    bytesReceived,
		ReceivedThrpMbps: roundTo6(receivedMbps),
		Timestamp:        endTime.Format(time.RFC3339),
	}, nil
}

func roundTo6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
