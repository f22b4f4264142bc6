// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nemo-testbed/slice-manager/configmodels"
)

const validProfile = `{"_id":"profile","dnn":"internet","5gQosProfile":{"5qi":9},"sessionAmbr":{"uplink":"100 Mbps","downlink":"100 Mbps"}}`

func TestPostSubscriptionProfile_IdRequired(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile",
		`{"dnn":"internet","5gQosProfile":{"5qi":9}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected %v, got %v", http.StatusBadRequest, w.Code)
	}
}

func TestPostSubscriptionProfile_AdmissibilityGate(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "unsupported dnn",
			body: `{"_id":"profile","dnn":"ims","5gQosProfile":{"5qi":9}}`,
		},
		{
			name: "unsupported 5qi",
			body: `{"_id":"profile","dnn":"internet","5gQosProfile":{"5qi":7}}`,
		},
		{
			name: "missing qos section",
			body: `{"_id":"profile","dnn":"internet"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupTestRouter()
			w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile", tc.body)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected %v, got %v (body %v)", http.StatusNotFound, w.Code, w.Body.String())
			}
			if detail := errorDetail(t, w); detail != "Unsupported dnn or 5qi" {
				t.Errorf("expected admissibility reason, got %q", detail)
			}
		})
	}
}

func TestPostSubscriptionProfile_Duplicate(t *testing.T) {
	router := setupTestRouter()
	if w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile", validProfile); w.Code != http.StatusOK {
		t.Fatalf("create failed: %v", w.Body.String())
	}
	w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile", validProfile)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected %v, got %v", http.StatusNotFound, w.Code)
	}
	if detail := errorDetail(t, w); detail != "Profile already exists" {
		t.Errorf("expected duplicate reason, got %q", detail)
	}
}

func TestPutSubscriptionProfile(t *testing.T) {
	router := setupTestRouter()
	if w := doRequest(router, http.MethodPut, "/api/v1.0/subscription-profile/profile", validProfile); w.Code != http.StatusNotFound {
		t.Errorf("expected %v for unknown profile, got %v", http.StatusNotFound, w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile", validProfile); w.Code != http.StatusOK {
		t.Fatalf("create failed: %v", w.Body.String())
	}

	capped := `{"_id":"profile","dnn":"internet","5gQosProfile":{"5qi":9},"sessionAmbr":{"uplink":"10 Mbps","downlink":"10 Mbps"}}`
	if w := doRequest(router, http.MethodPut, "/api/v1.0/subscription-profile/profile", capped); w.Code != http.StatusOK {
		t.Fatalf("update failed: %v", w.Body.String())
	}

	w := doRequest(router, http.MethodGet, "/api/v1.0/subscription-profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %v", w.Code)
	}
	var profiles []configmodels.SubscriptionProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("failed to parse profiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].SessionAmbr == nil || profiles[0].SessionAmbr.Uplink != "10 Mbps" {
		t.Errorf("expected capped uplink AMBR, got %+v", profiles[0].SessionAmbr)
	}
}

func TestDeleteSubscriptionProfile(t *testing.T) {
	router := setupTestRouter()
	if w := doRequest(router, http.MethodDelete, "/api/v1.0/subscription-profile/profile", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected %v for unknown profile, got %v", http.StatusNotFound, w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/v1.0/subscription-profile", validProfile); w.Code != http.StatusOK {
		t.Fatalf("create failed: %v", w.Body.String())
	}
	if w := doRequest(router, http.MethodDelete, "/api/v1.0/subscription-profile/profile", ""); w.Code != http.StatusOK {
		t.Errorf("expected %v, got %v", http.StatusOK, w.Code)
	}
}
