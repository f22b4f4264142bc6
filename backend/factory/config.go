// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

/*
 * Slice Manager Configuration Factory
 */

package factory

type Config struct {
	Info          *Info          `yaml:"info"`
	Configuration *Configuration `yaml:"configuration"`
	Logger        *Logger        `yaml:"logger"`
}

type Info struct {
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type Logger struct {
	SliceMgr *LogSetting `yaml:"sliceManager,omitempty"`
}

type LogSetting struct {
	DebugLevel string `yaml:"debugLevel,omitempty"`
}

type Configuration struct {
	WebServer      *WebServer       `yaml:"webServer,omitempty"`
	MetricsPort    int              `yaml:"metricsPort,omitempty"`
	Mongodb        *Mongodb         `yaml:"mongodb,omitempty"`
	Ran            *RanCapabilities `yaml:"ranCapabilities,omitempty"`
	Engine         *Engine          `yaml:"decisionEngine,omitempty"`
	Seed           *Seed            `yaml:"seed,omitempty"`
	BulkImportFile string           `yaml:"bulkImportFile,omitempty"`
}

type WebServer struct {
	Scheme string `yaml:"scheme"`
	IP     string `yaml:"ipv4Address"`
	Port   string `yaml:"port"`
}

// Mongodb is the optional persistent backend. When absent the service runs
// on the in-memory store.
type Mongodb struct {
	Name string `yaml:"name,omitempty"`
	Url  string `yaml:"url,omitempty"`
}

// RanCapabilities declares the (PLMN, S-NSSAI, QoS-profile, DNN) tuples the
// simulated RAN supports. Immutable for the process lifetime.
type RanCapabilities struct {
	Plmns       []PlmnId   `yaml:"plmns"`
	Snssais     []SnssaiId `yaml:"snssais"`
	QosProfiles []int32    `yaml:"qosProfiles"`
	Dnns        []string   `yaml:"dnns"`
}

type PlmnId struct {
	Mcc string `yaml:"mcc"`
	Mnc string `yaml:"mnc"`
}

type SnssaiId struct {
	Sst string `yaml:"sst"`
	Sd  string `yaml:"sd,omitempty"`
}

// Engine holds the decision-engine deployment parameters. Mitigation is
// mandatory when the engine is enabled: the AMBR caps come from here.
type Engine struct {
	Enabled        bool        `yaml:"enabled"`
	ApiBaseUrl     string      `yaml:"apiBaseUrl,omitempty"`
	TargetImsi     string      `yaml:"targetImsi"`
	Scenario       string      `yaml:"scenario"`
	PollInterval   int         `yaml:"pollIntervalSeconds,omitempty"`
	WindowSeconds  int         `yaml:"windowSeconds,omitempty"`
	CycleThreshold int         `yaml:"cycleThreshold,omitempty"`
	HighThreshold  float64     `yaml:"highThresholdMbps,omitempty"`
	RequestTimeout int         `yaml:"requestTimeoutSeconds,omitempty"`
	Mitigation     *Mitigation `yaml:"mitigation"`
}

type Mitigation struct {
	ProfileId         string `yaml:"profileId"`
	Dnn               string `yaml:"dnn,omitempty"`
	CappedSliceName   string `yaml:"cappedSliceName"`
	DefaultSliceName  string `yaml:"defaultSliceName"`
	UplinkAmbrValue   int    `yaml:"uplinkAmbrValue"`
	UplinkAmbrUnit    string `yaml:"uplinkAmbrUnit"`
	DownlinkAmbrValue int    `yaml:"downlinkAmbrValue"`
	DownlinkAmbrUnit  string `yaml:"downlinkAmbrUnit"`
	DefaultUplink     string `yaml:"defaultUplink"`
	DefaultDownlink   string `yaml:"defaultDownlink"`
}

// Seed optionally provisions the demo profile, subscriber and group on
// startup so the testbed comes up with a trackable UE.
type Seed struct {
	GroupName string `yaml:"groupName,omitempty"`
	Imsi      string `yaml:"imsi,omitempty"`
	K         string `yaml:"k,omitempty"`
	Opc       string `yaml:"opc,omitempty"`
	ProfileId string `yaml:"profileId,omitempty"`
	Dnn       string `yaml:"dnn,omitempty"`
}
