// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configmodels

// Subscriber is a provisioned UE identified by IMSI. K and OPC are
// 32-hex-digit key material, validated at creation time only.
type Subscriber struct {
	Imsi             string `json:"imsi"`
	Msisdn           string `json:"msisdn,omitempty"`
	K                string `json:"k,omitempty"`
	Opc              string `json:"opc,omitempty"`
	Sqn              string `json:"sqn,omitempty"`
	RName            string `json:"rName,omitempty"`
	GroupName        string `json:"groupName,omitempty"`
	Profile          string `json:"profile,omitempty"`
	Slice            string `json:"slice,omitempty"`
	UeStaticIpv4Addr string `json:"ue_static_ipv4_addr,omitempty"`
}

// SubscriberGroup is a named, ordered member list.
type SubscriberGroup struct {
	GroupName string   `json:"group-name"`
	Imsis     []string `json:"imsis"`
}

// SubscriberOrderEntry records the admission order of a subscriber. The
// sequence number is assigned once under the store lock and never reused.
type SubscriberOrderEntry struct {
	Imsi string `json:"imsi"`
	Seq  int64  `json:"seq"`
}
