// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the closed-loop traffic controller: it polls
// the usage-report endpoint, classifies the derived metrics and applies or
// reverts a mitigation through the configuration API.
package engine

import (
	"github.com/nemo-testbed/slice-manager/configmodels"
)

// Label is the categorical outcome of a traffic classification.
type Label string

const (
	LabelNormal Label = "normal"
	LabelHigh   Label = "high"
)

// Classifier maps one derived metrics sample to a traffic label. The
// trained model lives outside this process; the engine only consumes its
// categorical output.
type Classifier func(report *configmodels.MonitoringReport) Label

// ThresholdClassifier builds a stand-in classifier flagging samples whose
// sent throughput exceeds the given Mbps level.
func ThresholdClassifier(sentMbpsLimit float64) Classifier {
	return func(report *configmodels.MonitoringReport) Label {
		if report.SentThrpMbps > sentMbpsLimit {
			return LabelHigh
		}
		return LabelNormal
	}
}
