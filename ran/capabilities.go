// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

// Package ran models the capability set declared by the simulated Radio
// Access Network. The oracle is built once at startup and is read-only for
// the process lifetime.
package ran

import (
	"github.com/nemo-testbed/slice-manager/backend/factory"
)

type plmnKey struct {
	mcc string
	mnc string
}

type snssaiKey struct {
	sst string
	sd  string
}

type Capabilities struct {
	plmns       map[plmnKey]struct{}
	snssais     map[snssaiKey]struct{}
	qosProfiles map[int32]struct{}
	dnns        map[string]struct{}
}

// NewCapabilities builds the oracle from the declared capability config.
// A nil config yields the lab default set.
func NewCapabilities(cfg *factory.RanCapabilities) *Capabilities {
	if cfg == nil {
		cfg = DefaultCapabilities()
	}
	caps := &Capabilities{
		plmns:       make(map[plmnKey]struct{}),
		snssais:     make(map[snssaiKey]struct{}),
		qosProfiles: make(map[int32]struct{}),
		dnns:        make(map[string]struct{}),
	}
	for _, p := range cfg.Plmns {
		caps.plmns[plmnKey{mcc: p.Mcc, mnc: p.Mnc}] = struct{}{}
	}
	for _, s := range cfg.Snssais {
		caps.snssais[snssaiKey{sst: s.Sst, sd: s.Sd}] = struct{}{}
	}
	for _, q := range cfg.QosProfiles {
		caps.qosProfiles[q] = struct{}{}
	}
	for _, d := range cfg.Dnns {
		caps.dnns[d] = struct{}{}
	}
	return caps
}

// DefaultCapabilities is the capability set of the lab gNB: the test PLMN,
// SST 1 with SD 000002 (plus the empty-SD wildcard entry), QoS profile 9
// and the internet DNN.
func DefaultCapabilities() *factory.RanCapabilities {
	return &factory.RanCapabilities{
		Plmns: []factory.PlmnId{
			{Mcc: "999", Mnc: "99"},
		},
		Snssais: []factory.SnssaiId{
			{Sst: "1", Sd: "000002"},
			{Sst: "1", Sd: ""},
		},
		QosProfiles: []int32{9},
		Dnns:        []string{"internet"},
	}
}

func (c *Capabilities) IsPlmnSupported(mcc, mnc string) bool {
	_, ok := c.plmns[plmnKey{mcc: mcc, mnc: mnc}]
	return ok
}

// IsSnssaiSupported reports whether (sst, sd) is declared. A declared entry
// with an empty SD acts as a wildcard for its SST.
func (c *Capabilities) IsSnssaiSupported(sst, sd string) bool {
	if _, ok := c.snssais[snssaiKey{sst: sst, sd: sd}]; ok {
		return true
	}
	if sd == "" {
		return false
	}
	_, ok := c.snssais[snssaiKey{sst: sst, sd: ""}]
	return ok
}

func (c *Capabilities) IsQosProfileSupported(value int32) bool {
	_, ok := c.qosProfiles[value]
	return ok
}

func (c *Capabilities) IsDnnSupported(dnn string) bool {
	_, ok := c.dnns[dnn]
	return ok
}

// AreDnnsSupported reports whether every DNN in the set is declared.
func (c *Capabilities) AreDnnsSupported(dnns []string) bool {
	for _, dnn := range dnns {
		if _, ok := c.dnns[dnn]; !ok {
			return false
		}
	}
	return true
}
