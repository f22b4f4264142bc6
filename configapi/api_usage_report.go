// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nemo-testbed/slice-manager/backend/logger"
)

// GetUsageReport godoc
//
// @Description  Derive the per-UE throughput metrics over a time window;
// @Description  format=csv returns a header line plus one data row
// @Tags         Usage reports
// @Param        report-type    query    string    true     "Must be ue-usage"
// @Param        tgt_ue         query    string    true     "imsi-prefixed UE reference"
// @Param        start          query    string    true     "Window start, RFC3339"
// @Param        end            query    string    true     "Window end, RFC3339"
// @Param        format         query    string    false    "json or csv"
// @Produce      json
// @Success      200  {object}  configmodels.MonitoringReport  "Derived metrics"
// @Failure      400  {object}  nil                            "Malformed target or time window"
// @Failure      404  {object}  nil                            "Subscriber not found"
// @Router       /api/v1.0/usage-report  [get]
func GetUsageReport(c *gin.Context) {
	setCorsHeader(c)
	report, serr := GenerateUsageReport(
		c.Query("report-type"),
		c.Query("tgt_ue"),
		c.Query("start"),
		c.Query("end"),
	)
	if serr != nil {
		writeServiceError(c, serr)
		return
	}
	metrics, serr := DeriveMonitoringReport(report)
	if serr != nil {
		writeServiceError(c, serr)
		return
	}
	logger.ConfigLog.Debugf("usage report derived for [%v]", c.Query("tgt_ue"))

	if c.DefaultQuery("format", "json") == "csv" {
		header := "URLLC_Sent_thrp_Mbps,URLLC_BytesSent,URLLC_BytesReceived,URLLC_Received_thrp_Mbps,timestamp\n"
		row := fmt.Sprintf("%v,%v,%v,%v,%v\n",
			metrics.SentThrpMbps, metrics.BytesSent, metrics.BytesReceived, metrics.ReceivedThrpMbps, metrics.Timestamp)
		c.Data(http.StatusOK, "text/csv", []byte(header+row))
		return
	}
	c.JSON(http.StatusOK, metrics)
}
