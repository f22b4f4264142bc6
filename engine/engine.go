// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/nemo-testbed/slice-manager/backend/factory"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/backend/metrics"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/omec-project/openapi/models"
)

const (
	defaultPollInterval   = 5 * time.Second
	defaultWindow         = 25 * time.Minute
	defaultCycleThreshold = 9
	defaultRequestTimeout = 10 * time.Second
)

// Params is the deployment configuration of one control loop. The
// scenario is a fixed choice, not runtime-switched.
type Params struct {
	TargetImsi     string
	Scenario       string
	PollInterval   time.Duration
	Window         time.Duration
	CycleThreshold int
	RequestTimeout time.Duration
	Mitigation     factory.Mitigation
}

// NewParams builds loop parameters from the engine configuration,
// filling the lab defaults for anything unset.
func NewParams(cfg *factory.Engine) Params {
	p := Params{
		TargetImsi:     cfg.TargetImsi,
		Scenario:       cfg.Scenario,
		PollInterval:   defaultPollInterval,
		Window:         defaultWindow,
		CycleThreshold: defaultCycleThreshold,
		RequestTimeout: defaultRequestTimeout,
	}
	if cfg.PollInterval > 0 {
		p.PollInterval = time.Duration(cfg.PollInterval) * time.Second
	}
	if cfg.WindowSeconds > 0 {
		p.Window = time.Duration(cfg.WindowSeconds) * time.Second
	}
	if cfg.CycleThreshold > 0 {
		p.CycleThreshold = cfg.CycleThreshold
	}
	if cfg.RequestTimeout > 0 {
		p.RequestTimeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	if cfg.Mitigation != nil {
		p.Mitigation = *cfg.Mitigation
	}
	if p.Mitigation.ProfileId == "" {
		p.Mitigation.ProfileId = "profile"
	}
	if p.Mitigation.Dnn == "" {
		p.Mitigation.Dnn = "internet"
	}
	if p.Mitigation.CappedSliceName == "" {
		p.Mitigation.CappedSliceName = "slice-nemo"
	}
	if p.Mitigation.DefaultSliceName == "" {
		p.Mitigation.DefaultSliceName = "slice-default"
	}
	if p.Mitigation.DefaultUplink == "" {
		p.Mitigation.DefaultUplink = "100 Mbps"
	}
	if p.Mitigation.DefaultDownlink == "" {
		p.Mitigation.DefaultDownlink = "100 Mbps"
	}
	return p
}

// Engine owns the hysteresis state of one tracked subscriber. All
// transitions run on the Run goroutine; nothing here is shared.
type Engine struct {
	params   Params
	client   ConfigClient
	classify Classifier

	trafficHigh   bool
	actionApplied bool
	highCount     int
	normalCount   int
}

func New(params Params, client ConfigClient, classify Classifier) *Engine {
	return &Engine{
		params:   params,
		client:   client,
		classify: classify,
	}
}

// ActionApplied reports whether a mitigation is currently in effect.
func (e *Engine) ActionApplied() bool {
	return e.actionApplied
}

// Run drives the poll loop until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	logger.EngineLog.Infow("decision engine started",
		"imsi", e.params.TargetImsi, "scenario", e.params.Scenario,
		"threshold", e.params.CycleThreshold, "interval", e.params.PollInterval)
	ticker := time.NewTicker(e.params.PollInterval)
	defer ticker.Stop()
	for {
		e.Step(ctx)
		select {
		case <-ctx.Done():
			logger.EngineLog.Infoln("decision engine stopped")
			return
		case <-ticker.C:
		}
	}
}

// Step runs one poll cycle: fetch, classify, evaluate the debounce state
// and apply or revert the scenario mitigation on a threshold crossing.
// A fetch failure skips the cycle without touching any state.
func (e *Engine) Step(ctx context.Context) {
	metrics.EngineCycles.Inc()
	report, err := e.client.FetchMonitoringReport(ctx, e.params.TargetImsi, e.params.Window)
	if err != nil {
		metrics.EngineCycleFailures.Inc()
		logger.EngineLog.Warnw("telemetry fetch failed, skipping cycle", "error", err)
		return
	}
	label := e.classify(report)

	if label == LabelHigh {
		e.trafficHigh = true
		e.normalCount = 0
		e.highCount++
		logger.EngineLog.Debugw("traffic classified high", "count", e.highCount)
		if e.highCount < e.params.CycleThreshold {
			return
		}
		e.highCount = 0
		if e.actionApplied {
			return
		}
		e.actionApplied = true
		metrics.EngineMitigations.Inc()
		if err = e.applyMitigation(ctx); err != nil {
			// optimistic: the flag stays set and the failed call is
			// not retried until the state recurs
			logger.EngineLog.Errorw("mitigation failed", "error", err)
		}
		return
	}

	e.trafficHigh = false
	e.highCount = 0
	e.normalCount++
	logger.EngineLog.Debugw("traffic classified normal", "count", e.normalCount)
	// reversion is debounced symmetrically with activation
	if e.normalCount < e.params.CycleThreshold {
		return
	}
	e.normalCount = 0
	if !e.actionApplied {
		return
	}
	e.actionApplied = false
	metrics.EngineReversions.Inc()
	if err = e.revertMitigation(ctx); err != nil {
		logger.EngineLog.Errorw("reversion failed", "error", err)
	}
}

func (e *Engine) applyMitigation(ctx context.Context) error {
	switch e.params.Scenario {
	case factory.ScenarioProfileCapping:
		logger.EngineLog.Infow("applying profile cap", "profileId", e.params.Mitigation.ProfileId)
		return e.client.PutSubscriptionProfile(ctx, e.cappedProfile())
	case factory.ScenarioSliceIsolation:
		logger.EngineLog.Infow("isolating subscriber on capped slice",
			"imsi", e.params.TargetImsi, "slice", e.params.Mitigation.CappedSliceName)
		if err := e.client.PostSliceInstance(ctx, e.cappedSlice()); err != nil {
			return err
		}
		return e.client.PutSubscriber(ctx, e.subscriberBinding(e.params.Mitigation.CappedSliceName))
	}
	return fmt.Errorf("unknown scenario %q", e.params.Scenario)
}

func (e *Engine) revertMitigation(ctx context.Context) error {
	switch e.params.Scenario {
	case factory.ScenarioProfileCapping:
		logger.EngineLog.Infow("restoring default profile cap", "profileId", e.params.Mitigation.ProfileId)
		return e.client.PutSubscriptionProfile(ctx, e.defaultProfile())
	case factory.ScenarioSliceIsolation:
		logger.EngineLog.Infow("rebinding subscriber to default slice",
			"imsi", e.params.TargetImsi, "slice", e.params.Mitigation.DefaultSliceName)
		if err := e.client.PutSubscriber(ctx, e.subscriberBinding(e.params.Mitigation.DefaultSliceName)); err != nil {
			return err
		}
		return e.client.DeleteSliceInstance(ctx, e.params.Mitigation.CappedSliceName)
	}
	return fmt.Errorf("unknown scenario %q", e.params.Scenario)
}

func (e *Engine) cappedProfile() *configmodels.SubscriptionProfile {
	m := e.params.Mitigation
	return &configmodels.SubscriptionProfile{
		ProfileId:       m.ProfileId,
		Dnn:             m.Dnn,
		Var5gQosProfile: &models.SubscribedDefaultQos{Var5qi: 9},
		SessionAmbr: &models.Ambr{
			Uplink:   fmt.Sprintf("%d %s", m.UplinkAmbrValue, m.UplinkAmbrUnit),
			Downlink: fmt.Sprintf("%d %s", m.DownlinkAmbrValue, m.DownlinkAmbrUnit),
		},
	}
}

func (e *Engine) defaultProfile() *configmodels.SubscriptionProfile {
	m := e.params.Mitigation
	return &configmodels.SubscriptionProfile{
		ProfileId:       m.ProfileId,
		Dnn:             m.Dnn,
		Var5gQosProfile: &models.SubscribedDefaultQos{Var5qi: 9},
		SessionAmbr: &models.Ambr{
			Uplink:   m.DefaultUplink,
			Downlink: m.DefaultDownlink,
		},
	}
}

// cappedSlice is the throughput-capped slice activated during isolation.
// Activation runs the RAN capability validation on the API side.
func (e *Engine) cappedSlice() *configmodels.SliceInstance {
	m := e.params.Mitigation
	qosProfile := int32(9)
	dl := &configmodels.Throughput{Value: m.DownlinkAmbrValue, Unit: m.DownlinkAmbrUnit}
	ul := &configmodels.Throughput{Value: m.UplinkAmbrValue, Unit: m.UplinkAmbrUnit}
	return &configmodels.SliceInstance{
		SliceName:        m.CappedSliceName,
		ActivateSlice:    1,
		SliceDescription: "Lab slice with throughput caps",
		ServiceProfile: &configmodels.ServiceProfile{
			PlmnIdList:     []configmodels.SlicePlmnId{{Mcc: "999", Mnc: "99"}},
			SnssaiList:     []configmodels.SliceSnssai{{Sst: 1, Sd: "000002"}},
			Dnn:            m.Dnn,
			DLThptPerSlice: dl,
			ULThptPerSlice: ul,
			DLThptPerUE:    dl,
			ULThptPerUE:    ul,
		},
		NetworkSliceSubnet: &configmodels.NetworkSliceSubnet{
			EpTransport: &configmodels.EpTransport{
				QosProfile:    &qosProfile,
				EpApplication: []string{m.Dnn},
			},
		},
	}
}

func (e *Engine) subscriberBinding(sliceName string) *configmodels.Subscriber {
	return &configmodels.Subscriber{
		Imsi:    e.params.TargetImsi,
		Profile: e.params.Mitigation.ProfileId,
		Slice:   sliceName,
	}
}
