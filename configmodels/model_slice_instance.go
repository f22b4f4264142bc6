// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configmodels

// SliceInstance is a provisioned network slice. The JSON field casing
// follows the management-plane convention of the testbed core.
type SliceInstance struct {
	SliceName          string              `json:"sliceName"`
	SliceDescription   string              `json:"SliceDescription,omitempty"`
	ActivateSlice      int                 `json:"activate_slice,omitempty"`
	ServiceProfile     *ServiceProfile     `json:"ServiceProfile,omitempty"`
	NetworkSliceSubnet *NetworkSliceSubnet `json:"NetworkSliceSubnet,omitempty"`
}

type ServiceProfile struct {
	PlmnIdList     []SlicePlmnId `json:"PLMNIdList,omitempty"`
	SnssaiList     []SliceSnssai `json:"SNSSAIList,omitempty"`
	Dnn            string        `json:"dnn,omitempty"`
	DLThptPerSlice *Throughput   `json:"DLThptPerSlice,omitempty"`
	ULThptPerSlice *Throughput   `json:"ULThptPerSlice,omitempty"`
	DLThptPerUE    *Throughput   `json:"DLThptPerUE,omitempty"`
	ULThptPerUE    *Throughput   `json:"ULThptPerUE,omitempty"`
}

type SlicePlmnId struct {
	Mcc string `json:"mcc"`
	Mnc string `json:"mnc"`
}

type SliceSnssai struct {
	Sst int32  `json:"sst"`
	Sd  string `json:"sd,omitempty"`
}

type Throughput struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type NetworkSliceSubnet struct {
	EpTransport *EpTransport `json:"EpTransport,omitempty"`
}

// EpTransport carries the transport-endpoint QoS constraints of the slice
// subnet. QosProfile is a pointer so "absent" and "zero" stay distinct for
// the activation validator.
type EpTransport struct {
	QosProfile    *int32   `json:"qosProfile,omitempty"`
	EpApplication []string `json:"epApplication,omitempty"`
}
