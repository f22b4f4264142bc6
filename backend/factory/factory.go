// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

/*
 * Slice Manager Configuration Factory
 */

package factory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var SliceMgrConfig Config

const (
	ScenarioProfileCapping = "profile-capping"
	ScenarioSliceIsolation = "slice-isolation"
)

func InitConfigFactory(f string) error {
	content, err := os.ReadFile(f)
	if err != nil {
		return fmt.Errorf("[Configuration] %+v", err)
	}
	SliceMgrConfig = Config{}
	if yamlErr := yaml.Unmarshal(content, &SliceMgrConfig); yamlErr != nil {
		return fmt.Errorf("[Configuration] %+v", yamlErr)
	}
	if err := validateConfig(&SliceMgrConfig); err != nil {
		return fmt.Errorf("[Configuration] %+v", err)
	}
	return nil
}

// validateConfig rejects configurations the service cannot run degraded
// with. Anything engine-related that is broken aborts startup.
func validateConfig(cfg *Config) error {
	if cfg.Configuration == nil {
		return fmt.Errorf("configuration section is missing")
	}
	engine := cfg.Configuration.Engine
	if engine == nil || !engine.Enabled {
		return nil
	}
	if engine.TargetImsi == "" {
		return fmt.Errorf("decisionEngine.targetImsi is required")
	}
	switch engine.Scenario {
	case ScenarioProfileCapping, ScenarioSliceIsolation:
	default:
		return fmt.Errorf("decisionEngine.scenario must be %q or %q, got %q",
			ScenarioProfileCapping, ScenarioSliceIsolation, engine.Scenario)
	}
	if engine.Mitigation == nil {
		return fmt.Errorf("decisionEngine.mitigation parameters are required")
	}
	m := engine.Mitigation
	if m.UplinkAmbrValue <= 0 || m.DownlinkAmbrValue <= 0 ||
		m.UplinkAmbrUnit == "" || m.DownlinkAmbrUnit == "" {
		return fmt.Errorf("decisionEngine.mitigation AMBR caps and units are required")
	}
	return nil
}
