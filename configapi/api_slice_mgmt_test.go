// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"github.com/nemo-testbed/slice-manager/ran"
	"go.mongodb.org/mongo-driver/bson"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	dbadapter.CommonDBClient = dbadapter.NewMemDB()
	SetRanCapabilities(ran.NewCapabilities(nil))
	router := gin.Default()
	AddApiService(router)
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body %q: %v", w.Body.String(), err)
	}
	return body.Detail
}

func activeSlice(mutate func(*configmodels.SliceInstance)) string {
	qosProfile := int32(9)
	slice := configmodels.SliceInstance{
		SliceName:     "slice-nemo",
		ActivateSlice: 1,
		ServiceProfile: &configmodels.ServiceProfile{
			PlmnIdList: []configmodels.SlicePlmnId{{Mcc: "999", Mnc: "99"}},
			SnssaiList: []configmodels.SliceSnssai{{Sst: 1, Sd: "000002"}},
			Dnn:        "internet",
		},
		NetworkSliceSubnet: &configmodels.NetworkSliceSubnet{
			EpTransport: &configmodels.EpTransport{
				QosProfile:    &qosProfile,
				EpApplication: []string{"internet"},
			},
		},
	}
	if mutate != nil {
		mutate(&slice)
	}
	raw, _ := json.Marshal(&slice)
	return string(raw)
}

func TestPostSliceInstance_NameRequired(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance",
		activeSlice(func(s *configmodels.SliceInstance) { s.SliceName = "" }))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected %v, got %v", http.StatusBadRequest, w.Code)
	}
}

func TestPostSliceInstance_ActivationValidation(t *testing.T) {
	testCases := []struct {
		name           string
		mutate         func(*configmodels.SliceInstance)
		expectedReason string
	}{
		{
			name:           "missing PLMN list",
			mutate:         func(s *configmodels.SliceInstance) { s.ServiceProfile.PlmnIdList = nil },
			expectedReason: "PLMNIdList missing",
		},
		{
			name: "unsupported PLMN",
			mutate: func(s *configmodels.SliceInstance) {
				s.ServiceProfile.PlmnIdList = []configmodels.SlicePlmnId{{Mcc: "001", Mnc: "01"}}
			},
			expectedReason: "PLMN not supported by RAN",
		},
		{
			name:           "missing SNSSAI list",
			mutate:         func(s *configmodels.SliceInstance) { s.ServiceProfile.SnssaiList = nil },
			expectedReason: "SNSSAIList missing",
		},
		{
			name: "unsupported SNSSAI",
			mutate: func(s *configmodels.SliceInstance) {
				s.ServiceProfile.SnssaiList = []configmodels.SliceSnssai{{Sst: 2, Sd: "000001"}}
			},
			expectedReason: "SNSSAI not supported by RAN",
		},
		{
			name: "unsupported QoS profile",
			mutate: func(s *configmodels.SliceInstance) {
				qosProfile := int32(5)
				s.NetworkSliceSubnet.EpTransport.QosProfile = &qosProfile
			},
			expectedReason: "qosProfile not supported",
		},
		{
			name: "unsupported application DNN",
			mutate: func(s *configmodels.SliceInstance) {
				s.NetworkSliceSubnet.EpTransport.EpApplication = []string{"internet", "ims"}
			},
			expectedReason: "epApplication contains unsupported DNN(s)",
		},
		{
			name:           "unsupported service profile DNN",
			mutate:         func(s *configmodels.SliceInstance) { s.ServiceProfile.Dnn = "ims" },
			expectedReason: "ServiceProfile DNN not supported",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupTestRouter()
			w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", activeSlice(tc.mutate))
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected %v, got %v (body %v)", http.StatusNotFound, w.Code, w.Body.String())
			}
			if detail := errorDetail(t, w); detail != tc.expectedReason {
				t.Errorf("expected reason %q, got %q", tc.expectedReason, detail)
			}
			// a rejected activation must leave the store untouched
			stored, err := dbadapter.CommonDBClient.RestfulAPIGetMany(sliceDataColl, bson.M{})
			if err != nil {
				t.Fatalf("store read failed: %v", err)
			}
			if len(stored) != 0 {
				t.Errorf("expected empty store after rejection, got %v", stored)
			}
		})
	}
}

func TestPostSliceInstance_ValidActivation(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", activeSlice(nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected %v, got %v (body %v)", http.StatusOK, w.Code, w.Body.String())
	}
	w = doRequest(router, http.MethodGet, "/api/v1.0/slice-instance/slice-nemo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected %v, got %v", http.StatusOK, w.Code)
	}
	var stored configmodels.SliceInstance
	if err := json.Unmarshal(w.Body.Bytes(), &stored); err != nil {
		t.Fatalf("failed to parse slice: %v", err)
	}
	if stored.SliceName != "slice-nemo" || stored.ActivateSlice != 1 {
		t.Errorf("unexpected stored slice: %+v", stored)
	}
}

func TestPutSliceInstance_UnknownSlice(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(router, http.MethodPut, "/api/v1.0/slice-instance/slice-missing", activeSlice(nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected %v, got %v", http.StatusNotFound, w.Code)
	}
}

func TestPutSliceInstance_Idempotent(t *testing.T) {
	router := setupTestRouter()
	if w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", activeSlice(nil)); w.Code != http.StatusOK {
		t.Fatalf("create failed: %v", w.Body.String())
	}

	payload := activeSlice(func(s *configmodels.SliceInstance) { s.SliceDescription = "updated" })
	if w := doRequest(router, http.MethodPut, "/api/v1.0/slice-instance/slice-nemo", payload); w.Code != http.StatusOK {
		t.Fatalf("first update failed: %v", w.Body.String())
	}
	first := doRequest(router, http.MethodGet, "/api/v1.0/slice-instance/slice-nemo", "").Body.String()

	if w := doRequest(router, http.MethodPut, "/api/v1.0/slice-instance/slice-nemo", payload); w.Code != http.StatusOK {
		t.Fatalf("second update failed: %v", w.Body.String())
	}
	second := doRequest(router, http.MethodGet, "/api/v1.0/slice-instance/slice-nemo", "").Body.String()

	if first != second {
		t.Errorf("repeated update changed stored state:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestDeleteSliceInstance(t *testing.T) {
	router := setupTestRouter()
	if w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", activeSlice(nil)); w.Code != http.StatusOK {
		t.Fatalf("create failed: %v", w.Body.String())
	}
	if w := doRequest(router, http.MethodDelete, "/api/v1.0/slice-instance/slice-nemo", ""); w.Code != http.StatusOK {
		t.Errorf("expected %v, got %v", http.StatusOK, w.Code)
	}
	if w := doRequest(router, http.MethodDelete, "/api/v1.0/slice-instance/slice-nemo", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected %v on repeated delete, got %v", http.StatusNotFound, w.Code)
	}
}

func TestSliceProvisioningScenario(t *testing.T) {
	router := setupTestRouter()

	subscriber := `{"imsi":"999991000000001","k":"5122250214c33e723a5dd523fc145fc0","opc":"981d464c7c52eb6e5036234984ad0bcf"}`
	if w := doRequest(router, http.MethodPost, "/api/v1.0/subscribers", subscriber); w.Code != http.StatusOK {
		t.Fatalf("subscriber admission failed: %v", w.Body.String())
	}

	if w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", activeSlice(nil)); w.Code != http.StatusOK {
		t.Fatalf("expected slice activation to succeed, got %v (body %v)", w.Code, w.Body.String())
	}

	rejected := activeSlice(func(s *configmodels.SliceInstance) {
		s.SliceName = "slice-foreign"
		s.ServiceProfile.PlmnIdList = []configmodels.SlicePlmnId{{Mcc: "001", Mnc: "01"}}
	})
	w := doRequest(router, http.MethodPost, "/api/v1.0/slice-instance", rejected)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected rejection, got %v", w.Code)
	}
	if detail := errorDetail(t, w); detail != "PLMN not supported by RAN" {
		t.Errorf("expected PLMN rejection reason, got %q", detail)
	}
}
