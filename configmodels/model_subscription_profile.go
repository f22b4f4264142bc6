// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configmodels

import (
	"github.com/omec-project/openapi/models"
)

// SubscriptionProfile is the per-subscription QoS/session policy record.
// The 3GPP-shaped sections reuse the openapi model types so payloads stay
// wire-compatible with the core's subscription management surface.
type SubscriptionProfile struct {
	ProfileId       string                        `json:"_id"`
	Dnn             string                        `json:"dnn,omitempty"`
	Var5gQosProfile *models.SubscribedDefaultQos  `json:"5gQosProfile,omitempty"`
	SessionAmbr     *models.Ambr                  `json:"sessionAmbr,omitempty"`
	PduSessionTypes *models.PduSessionTypes       `json:"pduSessionTypes,omitempty"`
	UpSecurity      *models.UpSecurity            `json:"upSecurity,omitempty"`
}
