// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slicemgr.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validEngineConfig = `
info:
  version: 1.0.0
  description: slice manager config
configuration:
  webServer:
    scheme: http
    ipv4Address: 0.0.0.0
    port: "3000"
  decisionEngine:
    enabled: true
    targetImsi: "999991000000001"
    scenario: slice-isolation
    cycleThreshold: 9
    mitigation:
      profileId: profile
      cappedSliceName: slice-nemo
      defaultSliceName: slice-default
      uplinkAmbrValue: 10
      uplinkAmbrUnit: Mbps
      downlinkAmbrValue: 10
      downlinkAmbrUnit: Mbps
logger:
  sliceManager:
    debugLevel: info
`

func TestInitConfigFactory_Valid(t *testing.T) {
	path := writeConfig(t, validEngineConfig)
	if err := InitConfigFactory(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := SliceMgrConfig.Configuration
	if cfg == nil || cfg.Engine == nil {
		t.Fatalf("expected engine configuration")
	}
	if cfg.Engine.TargetImsi != "999991000000001" {
		t.Errorf("unexpected target imsi: %v", cfg.Engine.TargetImsi)
	}
	if cfg.Engine.Scenario != ScenarioSliceIsolation {
		t.Errorf("unexpected scenario: %v", cfg.Engine.Scenario)
	}
	if cfg.Engine.Mitigation.UplinkAmbrValue != 10 {
		t.Errorf("unexpected AMBR value: %v", cfg.Engine.Mitigation.UplinkAmbrValue)
	}
}

func TestInitConfigFactory_MissingFile(t *testing.T) {
	if err := InitConfigFactory(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestInitConfigFactory_EngineValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "missing target imsi",
			content: `
configuration:
  decisionEngine:
    enabled: true
    scenario: profile-capping
    mitigation:
      uplinkAmbrValue: 10
      uplinkAmbrUnit: Mbps
      downlinkAmbrValue: 10
      downlinkAmbrUnit: Mbps
`,
		},
		{
			name: "unknown scenario",
			content: `
configuration:
  decisionEngine:
    enabled: true
    targetImsi: "999991000000001"
    scenario: load-shedding
    mitigation:
      uplinkAmbrValue: 10
      uplinkAmbrUnit: Mbps
      downlinkAmbrValue: 10
      downlinkAmbrUnit: Mbps
`,
		},
		{
			name: "missing mitigation",
			content: `
configuration:
  decisionEngine:
    enabled: true
    targetImsi: "999991000000001"
    scenario: profile-capping
`,
		},
		{
			name: "incomplete mitigation caps",
			content: `
configuration:
  decisionEngine:
    enabled: true
    targetImsi: "999991000000001"
    scenario: profile-capping
    mitigation:
      uplinkAmbrValue: 10
      downlinkAmbrValue: 10
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if err := InitConfigFactory(path); err == nil {
				t.Errorf("expected a validation error")
			}
		})
	}
}

func TestInitConfigFactory_EngineDisabledSkipsValidation(t *testing.T) {
	path := writeConfig(t, `
configuration:
  webServer:
    port: "3000"
  decisionEngine:
    enabled: false
`)
	if err := InitConfigFactory(path); err != nil {
		t.Errorf("unexpected error with engine disabled: %v", err)
	}
}
