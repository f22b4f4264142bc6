// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetSliceInstances godoc
//
// @Description  Return the list of provisioned slice instances
// @Tags         Slice instances
// @Produce      json
// @Success      200  {array}   configmodels.SliceInstance  "List of slice instances"
// @Failure      500  {object}  nil                         "Error retrieving slice instances"
// @Router       /api/v1.0/slice-instance  [get]
func GetSliceInstances(c *gin.Context) {
	setCorsHeader(c)
	logger.ConfigLog.Infoln("received a GET slice instances request")
	slices := make([]*configmodels.SliceInstance, 0)
	rawSlices, err := dbadapter.CommonDBClient.RestfulAPIGetMany(sliceDataColl, bson.M{})
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve slice instances", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve slice instances"})
		return
	}
	for _, rawSlice := range rawSlices {
		var sliceData configmodels.SliceInstance
		if err = json.Unmarshal(configmodels.MapToByte(rawSlice), &sliceData); err != nil {
			logger.DbLog.Errorf("could not unmarshal slice instance %v", rawSlice)
			continue
		}
		slices = append(slices, &sliceData)
	}
	c.JSON(http.StatusOK, slices)
}

// GetSliceInstance godoc
//
// @Description  Return one slice instance by name
// @Tags         Slice instances
// @Param        sliceName    path    string    true    "Name of the slice instance"
// @Produce      json
// @Success      200  {object}  configmodels.SliceInstance  "Slice instance"
// @Failure      404  {object}  nil                         "Slice not found"
// @Router       /api/v1.0/slice-instance/{sliceName}  [get]
func GetSliceInstance(c *gin.Context) {
	setCorsHeader(c)
	sliceName := c.Param("sliceName")
	rawSlice, err := dbadapter.CommonDBClient.RestfulAPIGetOne(sliceDataColl, bson.M{"sliceName": sliceName})
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve slice instance", "sliceName", sliceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve slice instance"})
		return
	}
	if len(rawSlice) == 0 {
		writeServiceError(c, notFound("Slice not found"))
		return
	}
	var sliceData configmodels.SliceInstance
	if err = json.Unmarshal(configmodels.MapToByte(rawSlice), &sliceData); err != nil {
		logger.DbLog.Errorf("could not unmarshal slice instance %v", rawSlice)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve slice instance"})
		return
	}
	c.JSON(http.StatusOK, sliceData)
}

// PostSliceInstance godoc
//
// @Description  Create or replace a slice instance; activation is gated by
// @Description  the declared RAN capability set
// @Tags         Slice instances
// @Param        content    body    configmodels.SliceInstance    true    "Slice instance"
// @Produce      json
// @Success      200  {object}  nil  "Slice instance upserted"
// @Failure      400  {object}  nil  "sliceName missing"
// @Failure      404  {object}  nil  "RAN capability check failed"
// @Router       /api/v1.0/slice-instance  [post]
func PostSliceInstance(c *gin.Context) {
	setCorsHeader(c)
	request, serr := bindSliceInstance(c)
	if serr != nil {
		writeServiceError(c, serr)
		return
	}
	if serr = sliceInstanceUpsert(request, false); serr != nil {
		writeServiceError(c, serr)
		return
	}
	logger.ConfigLog.Infof("slice instance [%v] upserted", request.SliceName)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "sliceName": request.SliceName})
}

// PutSliceInstance godoc
//
// @Description  Replace an existing slice instance
// @Tags         Slice instances
// @Param        sliceName    path    string                        true    "Name of the slice instance"
// @Param        content      body    configmodels.SliceInstance    true    "Slice instance"
// @Produce      json
// @Success      200  {object}  nil  "Slice instance replaced"
// @Failure      404  {object}  nil  "Slice not found or RAN capability check failed"
// @Router       /api/v1.0/slice-instance/{sliceName}  [put]
func PutSliceInstance(c *gin.Context) {
	setCorsHeader(c)
	sliceName := c.Param("sliceName")
	request, serr := bindSliceInstance(c)
	if serr != nil {
		writeServiceError(c, serr)
		return
	}
	request.SliceName = sliceName
	if serr = sliceInstanceUpsert(request, true); serr != nil {
		writeServiceError(c, serr)
		return
	}
	logger.ConfigLog.Infof("slice instance [%v] replaced", sliceName)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "sliceName": sliceName})
}

// DeleteSliceInstance godoc
//
// @Description  Delete an existing slice instance
// @Tags         Slice instances
// @Param        sliceName    path    string    true    "Name of the slice instance"
// @Produce      json
// @Success      200  {object}  nil  "Slice instance deleted"
// @Failure      404  {object}  nil  "Slice not found"
// @Router       /api/v1.0/slice-instance/{sliceName}  [delete]
func DeleteSliceInstance(c *gin.Context) {
	setCorsHeader(c)
	sliceName := c.Param("sliceName")
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"sliceName": sliceName}
	rawSlice, err := dbadapter.CommonDBClient.RestfulAPIGetOne(sliceDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check slice instance", "sliceName", sliceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete slice instance"})
		return
	}
	if len(rawSlice) == 0 {
		writeServiceError(c, notFound("Slice not found"))
		return
	}
	if err = dbadapter.CommonDBClient.RestfulAPIDeleteOne(sliceDataColl, filter); err != nil {
		logger.DbLog.Errorw("failed to delete slice instance", "sliceName", sliceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete slice instance"})
		return
	}
	logger.ConfigLog.Infof("slice instance [%v] deleted", sliceName)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "deleted": sliceName})
}

func bindSliceInstance(c *gin.Context) (*configmodels.SliceInstance, *ServiceError) {
	ct := strings.Split(c.GetHeader("Content-Type"), ";")[0]
	if ct != "application/json" {
		return nil, badRequest("unsupported content-type: " + ct)
	}
	var request configmodels.SliceInstance
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		return nil, badRequest("invalid JSON format")
	}
	return &request, nil
}

// sliceInstanceUpsert validates and stores a slice instance under the store
// lock. Validation runs before any mutation: a rejected activation leaves
// the store untouched.
func sliceInstanceUpsert(slice *configmodels.SliceInstance, mustExist bool) *ServiceError {
	if slice.SliceName == "" {
		return badRequest("sliceName is required")
	}
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"sliceName": slice.SliceName}
	if mustExist {
		existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(sliceDataColl, filter)
		if err != nil {
			logger.DbLog.Errorw("failed to check slice instance", "sliceName", slice.SliceName, "error", err)
			return notFound("Slice not found")
		}
		if len(existing) == 0 {
			return notFound("Slice not found")
		}
	}
	if slice.ActivateSlice == 1 {
		if reason := validateSliceActivation(slice); reason != "" {
			logger.RanLog.Warnf("slice [%v] rejected: %v", slice.SliceName, reason)
			return ranRejected(reason)
		}
	}
	if _, err := dbadapter.CommonDBClient.RestfulAPIPutOne(sliceDataColl, filter, configmodels.ToBsonM(slice)); err != nil {
		logger.DbLog.Errorw("failed to store slice instance", "sliceName", slice.SliceName, "error", err)
		return upstreamUnavailable("failed to store slice instance")
	}
	return nil
}

// validateSliceActivation checks an activation request against the RAN
// capability oracle. First failing check wins and names the rejection.
func validateSliceActivation(slice *configmodels.SliceInstance) string {
	sp := slice.ServiceProfile
	if sp == nil || len(sp.PlmnIdList) == 0 {
		return "PLMNIdList missing"
	}
	plmnOk := false
	for _, p := range sp.PlmnIdList {
		if ranCaps.IsPlmnSupported(p.Mcc, p.Mnc) {
			plmnOk = true
			break
		}
	}
	if !plmnOk {
		return "PLMN not supported by RAN"
	}

	if len(sp.SnssaiList) == 0 {
		return "SNSSAIList missing"
	}
	snssaiOk := false
	for _, s := range sp.SnssaiList {
		if ranCaps.IsSnssaiSupported(strconv.Itoa(int(s.Sst)), s.Sd) {
			snssaiOk = true
			break
		}
	}
	if !snssaiOk {
		return "SNSSAI not supported by RAN"
	}

	if slice.NetworkSliceSubnet != nil && slice.NetworkSliceSubnet.EpTransport != nil {
		ep := slice.NetworkSliceSubnet.EpTransport
		if ep.QosProfile != nil && !ranCaps.IsQosProfileSupported(*ep.QosProfile) {
			return "qosProfile not supported"
		}
		if len(ep.EpApplication) > 0 && !ranCaps.AreDnnsSupported(ep.EpApplication) {
			return "epApplication contains unsupported DNN(s)"
		}
	}

	if sp.Dnn != "" && !ranCaps.IsDnnSupported(sp.Dnn) {
		return "ServiceProfile DNN not supported"
	}
	return ""
}
