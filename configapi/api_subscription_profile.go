// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"go.mongodb.org/mongo-driver/bson"
)

// qos5qiAllowList is the fixed set of 5QI codes admissible in a
// subscription profile. Distinct from the RAN oracle's QoS-profile set.
var qos5qiAllowList = map[int32]struct{}{
	5: {},
	9: {},
}

// GetSubscriptionProfiles godoc
//
// @Description  Return the list of subscription profiles
// @Tags         Subscription profiles
// @Produce      json
// @Success      200  {array}   configmodels.SubscriptionProfile  "List of subscription profiles"
// @Failure      500  {object}  nil                               "Error retrieving subscription profiles"
// @Router       /api/v1.0/subscription-profile  [get]
func GetSubscriptionProfiles(c *gin.Context) {
	setCorsHeader(c)
	logger.ConfigLog.Infoln("received a GET subscription profiles request")
	profiles := make([]*configmodels.SubscriptionProfile, 0)
	rawProfiles, err := dbadapter.CommonDBClient.RestfulAPIGetMany(profileDataColl, bson.M{})
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve subscription profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscription profiles"})
		return
	}
	for _, rawProfile := range rawProfiles {
		var profileData configmodels.SubscriptionProfile
		if err = json.Unmarshal(configmodels.MapToByte(rawProfile), &profileData); err != nil {
			logger.DbLog.Errorf("could not unmarshal subscription profile %v", rawProfile)
			continue
		}
		profiles = append(profiles, &profileData)
	}
	c.JSON(http.StatusOK, profiles)
}

// PostSubscriptionProfile godoc
//
// @Description  Create a new subscription profile; the DNN and 5QI must be
// @Description  admissible
// @Tags         Subscription profiles
// @Param        content    body    configmodels.SubscriptionProfile    true    "Subscription profile"
// @Produce      json
// @Success      200  {object}  nil  "Subscription profile created"
// @Failure      400  {object}  nil  "_id missing"
// @Failure      404  {object}  nil  "Profile already exists or unsupported dnn/5qi"
// @Router       /api/v1.0/subscription-profile  [post]
func PostSubscriptionProfile(c *gin.Context) {
	setCorsHeader(c)
	var request configmodels.SubscriptionProfile
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		writeServiceError(c, badRequest("invalid JSON format"))
		return
	}
	if request.ProfileId == "" {
		writeServiceError(c, badRequest("_id is required"))
		return
	}
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"_id": request.ProfileId}
	existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(profileDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscription profile", "profileId", request.ProfileId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription profile"})
		return
	}
	if len(existing) != 0 {
		writeServiceError(c, conflict("Profile already exists"))
		return
	}
	if serr := validateProfileAdmissibility(&request); serr != nil {
		writeServiceError(c, serr)
		return
	}
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(profileDataColl, filter, configmodels.ToBsonM(&request)); err != nil {
		logger.DbLog.Errorw("failed to store subscription profile", "profileId", request.ProfileId, "error", err)
		writeServiceError(c, upstreamUnavailable("failed to store subscription profile"))
		return
	}
	logger.ConfigLog.Infof("subscription profile [%v] created", request.ProfileId)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "profileId": request.ProfileId})
}

// PutSubscriptionProfile godoc
//
// @Description  Replace an existing subscription profile
// @Tags         Subscription profiles
// @Param        profileId    path    string                              true    "Profile id"
// @Param        content      body    configmodels.SubscriptionProfile    true    "Subscription profile"
// @Produce      json
// @Success      200  {object}  nil  "Subscription profile replaced"
// @Failure      404  {object}  nil  "Profile not found or unsupported dnn/5qi"
// @Router       /api/v1.0/subscription-profile/{profileId}  [put]
func PutSubscriptionProfile(c *gin.Context) {
	setCorsHeader(c)
	profileId := c.Param("profileId")
	var request configmodels.SubscriptionProfile
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		writeServiceError(c, badRequest("invalid JSON format"))
		return
	}
	request.ProfileId = profileId
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"_id": profileId}
	existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(profileDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscription profile", "profileId", profileId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to replace subscription profile"})
		return
	}
	if len(existing) == 0 {
		writeServiceError(c, notFound("Profile not found"))
		return
	}
	if serr := validateProfileAdmissibility(&request); serr != nil {
		writeServiceError(c, serr)
		return
	}
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(profileDataColl, filter, configmodels.ToBsonM(&request)); err != nil {
		logger.DbLog.Errorw("failed to store subscription profile", "profileId", profileId, "error", err)
		writeServiceError(c, upstreamUnavailable("failed to store subscription profile"))
		return
	}
	logger.ConfigLog.Infof("subscription profile [%v] replaced", profileId)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "profileId": profileId})
}

// DeleteSubscriptionProfile godoc
//
// @Description  Delete an existing subscription profile
// @Tags         Subscription profiles
// @Param        profileId    path    string    true    "Profile id"
// @Produce      json
// @Success      200  {object}  nil  "Subscription profile deleted"
// @Failure      404  {object}  nil  "Profile not found"
// @Router       /api/v1.0/subscription-profile/{profileId}  [delete]
func DeleteSubscriptionProfile(c *gin.Context) {
	setCorsHeader(c)
	profileId := c.Param("profileId")
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"_id": profileId}
	existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(profileDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscription profile", "profileId", profileId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription profile"})
		return
	}
	if len(existing) == 0 {
		writeServiceError(c, notFound("Profile not found"))
		return
	}
	if err = dbadapter.CommonDBClient.RestfulAPIDeleteOne(profileDataColl, filter); err != nil {
		logger.DbLog.Errorw("failed to delete subscription profile", "profileId", profileId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription profile"})
		return
	}
	logger.ConfigLog.Infof("subscription profile [%v] deleted", profileId)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "deleted": profileId})
}

// validateProfileAdmissibility gates creation and update: the DNN must be
// declared by the RAN and the 5QI must be on the subscription allow-list.
func validateProfileAdmissibility(profile *configmodels.SubscriptionProfile) *ServiceError {
	if !ranCaps.IsDnnSupported(profile.Dnn) {
		return ranRejected("Unsupported dnn or 5qi")
	}
	if profile.Var5gQosProfile == nil {
		return ranRejected("Unsupported dnn or 5qi")
	}
	if _, ok := qos5qiAllowList[profile.Var5gQosProfile.Var5qi]; !ok {
		return ranRejected("Unsupported dnn or 5qi")
	}
	return nil
}
