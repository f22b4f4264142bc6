// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"sync"

	"github.com/nemo-testbed/slice-manager/ran"
)

const (
	sliceDataColl      = "slicemgrData.snapshots.sliceInstance"
	profileDataColl    = "slicemgrData.snapshots.subscriptionProfile"
	subscriberDataColl = "slicemgrData.snapshots.subscriberData"
	groupDataColl      = "slicemgrData.snapshots.groupData"
	orderDataColl      = "slicemgrData.snapshots.subscriberOrder"
)

// configMu serializes every store mutation. One lock around the whole
// store: mutations touch several collections (subscriber + groups + order
// index) and their cascades must be atomic with respect to readers.
var configMu sync.Mutex

var ranCaps = ran.NewCapabilities(nil)

// SetRanCapabilities installs the oracle built from configuration. Called
// once at startup before the HTTP service accepts requests.
func SetRanCapabilities(caps *ran.Capabilities) {
	ranCaps = caps
}
