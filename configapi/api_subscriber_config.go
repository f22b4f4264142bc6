// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nemo-testbed/slice-manager/backend/factory"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"go.mongodb.org/mongo-driver/bson"
)

const defaultBulkImportFile = "esims.csv"

func setCorsHeader(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
}

// GetSubscribers godoc
//
// @Description  Return the admitted subscribers in insertion order;
// @Description  order=-1 reverses
// @Tags         Subscribers
// @Param        order    query    string    false    "1 or -1"
// @Produce      json
// @Success      200  {array}   configmodels.Subscriber  "List of subscribers"
// @Failure      500  {object}  nil                      "Error retrieving subscribers"
// @Router       /api/v1.0/subscribers  [get]
func GetSubscribers(c *gin.Context) {
	setCorsHeader(c)
	logger.ConfigLog.Infoln("received a GET subscribers request")
	subscribers, err := orderedSubscribers(parseOrderParam(c))
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscribers"})
		return
	}
	c.JSON(http.StatusOK, subscribers)
}

// GetSubscriberByIMSI godoc
//
// @Description  Return one subscriber by IMSI
// @Tags         Subscribers
// @Param        imsi    path    string    true    "IMSI"
// @Produce      json
// @Success      200  {object}  configmodels.Subscriber  "Subscriber"
// @Failure      404  {object}  nil                      "Subscriber not found"
// @Router       /api/v1.0/subscribers/{imsi}  [get]
func GetSubscriberByIMSI(c *gin.Context) {
	setCorsHeader(c)
	imsi := c.Param("imsi")
	rawSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, bson.M{"imsi": imsi})
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve subscriber", "imsi", imsi, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscriber"})
		return
	}
	if len(rawSubscriber) == 0 {
		writeServiceError(c, notFound("Subscriber not found"))
		return
	}
	var subscriberData configmodels.Subscriber
	if err = json.Unmarshal(configmodels.MapToByte(rawSubscriber), &subscriberData); err != nil {
		logger.DbLog.Errorf("could not unmarshal subscriber %v", rawSubscriber)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscriber"})
		return
	}
	c.JSON(http.StatusOK, subscriberData)
}

// PostSubscriber godoc
//
// @Description  Admit a new subscriber; K and OPC must be 32 hex digits and
// @Description  a referenced group must already exist
// @Tags         Subscribers
// @Param        content    body    configmodels.Subscriber    true    "Subscriber"
// @Produce      json
// @Success      200  {object}  nil  "Subscriber admitted"
// @Failure      400  {object}  nil  "imsi missing"
// @Failure      404  {object}  nil  "Duplicate IMSI, unknown group or invalid key material"
// @Router       /api/v1.0/subscribers  [post]
func PostSubscriber(c *gin.Context) {
	setCorsHeader(c)
	requestID := uuid.New().String()
	var request configmodels.Subscriber
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		writeServiceError(c, badRequest("invalid JSON format"))
		return
	}
	if request.Imsi == "" {
		writeServiceError(c, badRequest("imsi is required"))
		return
	}
	if !isValidImsi(request.Imsi) {
		writeServiceError(c, badRequest("invalid imsi format"))
		return
	}
	logger.ConfigLog.Infof("[%v] received a POST subscriber [%v] request", requestID, request.Imsi)
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"imsi": request.Imsi}
	existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscriber", "imsi", request.Imsi, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscriber"})
		return
	}
	if len(existing) != 0 {
		writeServiceError(c, conflict("Subscriber already exists"))
		return
	}
	if request.GroupName != "" {
		group, err := getGroup(request.GroupName)
		if err != nil {
			logger.DbLog.Errorw("failed to check group", "group", request.GroupName, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscriber"})
			return
		}
		if group == nil {
			writeServiceError(c, notFound("Group not found"))
			return
		}
	}
	if !isHex32(request.K) || !isHex32(request.Opc) {
		writeServiceError(c, notFound("Invalid K/OPC"))
		return
	}
	if serr := admitSubscriberLocked(&request); serr != nil {
		writeServiceError(c, serr)
		return
	}
	logger.ConfigLog.Infof("[%v] subscriber [%v] admitted", requestID, request.Imsi)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "imsi": request.Imsi})
}

// admitSubscriberLocked stores the record, assigns the next order-index
// sequence and joins the named group. Caller holds configMu and has
// already validated the payload.
func admitSubscriberLocked(subscriber *configmodels.Subscriber) *ServiceError {
	filter := bson.M{"imsi": subscriber.Imsi}
	if _, err := dbadapter.CommonDBClient.RestfulAPIPutOne(subscriberDataColl, filter, configmodels.ToBsonM(subscriber)); err != nil {
		logger.DbLog.Errorw("failed to store subscriber", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	seq, err := nextSubscriberSeq()
	if err != nil {
		logger.DbLog.Errorw("failed to assign order index", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	entry := configmodels.SubscriberOrderEntry{Imsi: subscriber.Imsi, Seq: seq}
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(orderDataColl, filter, configmodels.ToBsonM(&entry)); err != nil {
		logger.DbLog.Errorw("failed to store order index", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	if subscriber.GroupName != "" {
		if err = addImsiToGroup(subscriber.GroupName, subscriber.Imsi, false); err != nil {
			logger.DbLog.Errorw("failed to update group", "group", subscriber.GroupName, "error", err)
			return upstreamUnavailable("failed to store subscriber")
		}
	}
	return nil
}

// PutSubscriber godoc
//
// @Description  Replace an existing subscriber record in full; a referenced
// @Description  group must already exist
// @Tags         Subscribers
// @Param        imsi       path    string                     true    "IMSI"
// @Param        content    body    configmodels.Subscriber    true    "Subscriber"
// @Produce      json
// @Success      200  {object}  nil  "Subscriber replaced"
// @Failure      404  {object}  nil  "Subscriber or group not found"
// @Router       /api/v1.0/subscribers/{imsi}  [put]
func PutSubscriber(c *gin.Context) {
	setCorsHeader(c)
	requestID := uuid.New().String()
	imsi := c.Param("imsi")
	var request configmodels.Subscriber
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		writeServiceError(c, badRequest("invalid JSON format"))
		return
	}
	request.Imsi = imsi
	logger.ConfigLog.Infof("[%v] received a PUT subscriber [%v] request", requestID, imsi)
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"imsi": imsi}
	existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscriber", "imsi", imsi, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to replace subscriber"})
		return
	}
	if len(existing) == 0 {
		writeServiceError(c, notFound("Subscriber not found"))
		return
	}
	if request.GroupName != "" {
		group, err := getGroup(request.GroupName)
		if err != nil {
			logger.DbLog.Errorw("failed to check group", "group", request.GroupName, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to replace subscriber"})
			return
		}
		if group == nil {
			writeServiceError(c, notFound("Group not found"))
			return
		}
	}
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(subscriberDataColl, filter, configmodels.ToBsonM(&request)); err != nil {
		logger.DbLog.Errorw("failed to store subscriber", "imsi", imsi, "error", err)
		writeServiceError(c, upstreamUnavailable("failed to store subscriber"))
		return
	}
	// replace-payload model: join the new group, do not leave the old one
	if request.GroupName != "" {
		if err = addImsiToGroup(request.GroupName, imsi, false); err != nil {
			logger.DbLog.Errorw("failed to update group", "group", request.GroupName, "error", err)
			writeServiceError(c, upstreamUnavailable("failed to store subscriber"))
			return
		}
	}
	logger.ConfigLog.Infof("[%v] subscriber [%v] replaced", requestID, imsi)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "imsi": imsi})
}

// DeleteSubscriber godoc
//
// @Description  Delete a subscriber; cascades through group member lists
// @Description  and the order index
// @Tags         Subscribers
// @Param        imsi    path    string    true    "IMSI"
// @Produce      json
// @Success      200  {object}  nil  "Subscriber deleted"
// @Failure      404  {object}  nil  "Subscriber not found"
// @Router       /api/v1.0/subscribers/{imsi}  [delete]
func DeleteSubscriber(c *gin.Context) {
	setCorsHeader(c)
	imsi := c.Param("imsi")
	configMu.Lock()
	defer configMu.Unlock()
	serr, err := deleteSubscriberLocked(imsi)
	if err != nil {
		logger.DbLog.Errorw("failed to delete subscriber", "imsi", imsi, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscriber"})
		return
	}
	if serr != nil {
		writeServiceError(c, serr)
		return
	}
	logger.ConfigLog.Infof("subscriber [%v] deleted", imsi)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "deleted": imsi})
}

// GetSubscribersByGroup godoc
//
// @Description  Return the members of a group preserving insertion order
// @Tags         Subscribers
// @Param        gname    query    string    true     "Group name"
// @Param        order    query    string    false    "1 or -1"
// @Produce      json
// @Success      200  {array}   configmodels.Subscriber  "Group members"
// @Failure      400  {object}  nil                      "gname missing"
// @Failure      404  {object}  nil                      "Group not found"
// @Router       /api/v1.0/subscribers/by-group  [get]
func GetSubscribersByGroup(c *gin.Context) {
	setCorsHeader(c)
	groupName := c.Query("gname")
	if groupName == "" {
		writeServiceError(c, badRequest("gname is required"))
		return
	}
	group, err := getGroup(groupName)
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve group", "group", groupName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve group"})
		return
	}
	if group == nil {
		writeServiceError(c, notFound("Group not found"))
		return
	}
	members := make(map[string]struct{}, len(group.Imsis))
	for _, imsi := range group.Imsis {
		members[imsi] = struct{}{}
	}
	subscribers, err := orderedSubscribers(parseOrderParam(c))
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscribers"})
		return
	}
	filtered := make([]configmodels.Subscriber, 0, len(group.Imsis))
	for _, subscriberData := range subscribers {
		if _, ok := members[subscriberData.Imsi]; ok {
			filtered = append(filtered, subscriberData)
		}
	}
	c.JSON(http.StatusOK, filtered)
}

// GetSubscribersByRange godoc
//
// @Description  Return the half-open slice [start, end) of the
// @Description  insertion-ordered subscriber list
// @Tags         Subscribers
// @Param        start    query    string    true     "Slice start, inclusive"
// @Param        end      query    string    true     "Slice end, exclusive"
// @Param        order    query    string    false    "1 or -1"
// @Produce      json
// @Success      200  {array}   configmodels.Subscriber  "Subscriber batch"
// @Failure      400  {object}  nil                      "Non-integer parameters"
// @Failure      404  {object}  nil                      "Range out of bounds"
// @Router       /api/v1.0/subscribers/by-batch  [get]
func GetSubscribersByRange(c *gin.Context) {
	setCorsHeader(c)
	start, errStart := strconv.Atoi(c.Query("start"))
	end, errEnd := strconv.Atoi(c.Query("end"))
	order, errOrder := strconv.Atoi(c.DefaultQuery("order", "1"))
	if errStart != nil || errEnd != nil || errOrder != nil {
		writeServiceError(c, badRequest("start, end and order must be integers"))
		return
	}
	subscribers, err := orderedSubscribers(1)
	if err != nil {
		logger.DbLog.Errorw("failed to retrieve subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve subscribers"})
		return
	}
	total := len(subscribers)
	if start < 0 || end < 0 || start >= total || end > total {
		writeServiceError(c, notFound("Requested range is out of bounds"))
		return
	}
	batch := subscribers[start:end]
	if order == -1 {
		reversed := make([]configmodels.Subscriber, len(batch))
		copy(reversed, batch)
		reverseSubscribers(reversed)
		batch = reversed
	}
	c.JSON(http.StatusOK, batch)
}

// GetSubscriberCount godoc
//
// @Description  Return the number of admitted subscribers
// @Tags         Subscribers
// @Produce      json
// @Success      200  {object}  nil  "Subscriber count"
// @Router       /api/v1.0/subscribers/total-count  [get]
func GetSubscriberCount(c *gin.Context) {
	setCorsHeader(c)
	count, err := dbadapter.CommonDBClient.RestfulAPICount(subscriberDataColl, bson.M{})
	if err != nil {
		logger.DbLog.Errorw("failed to count subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count subscribers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total-count": count})
}

// UpdateSubscriberSqn godoc
//
// @Description  Replace only the sequence number of a subscriber
// @Tags         Subscribers
// @Param        imsi       path    string    true    "IMSI"
// @Param        content    body    object    true    "Body with the new sqn"
// @Produce      json
// @Success      200  {object}  nil  "Sequence number updated"
// @Failure      400  {object}  nil  "sqn missing"
// @Failure      404  {object}  nil  "Subscriber not found"
// @Router       /api/v1.0/subscribers/sqn/{imsi}  [put]
func UpdateSubscriberSqn(c *gin.Context) {
	setCorsHeader(c)
	imsi := c.Param("value")
	var request struct {
		Sqn string `json:"sqn"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.ConfigLog.Errorf("JSON bind error: %v", err)
		writeServiceError(c, badRequest("invalid JSON format"))
		return
	}
	if request.Sqn == "" {
		writeServiceError(c, badRequest("sqn is required"))
		return
	}
	configMu.Lock()
	defer configMu.Unlock()
	filter := bson.M{"imsi": imsi}
	rawSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, filter)
	if err != nil {
		logger.DbLog.Errorw("failed to check subscriber", "imsi", imsi, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update sqn"})
		return
	}
	if len(rawSubscriber) == 0 {
		writeServiceError(c, notFound("Subscriber not found"))
		return
	}
	rawSubscriber["sqn"] = request.Sqn
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(subscriberDataColl, filter, rawSubscriber); err != nil {
		logger.DbLog.Errorw("failed to store subscriber", "imsi", imsi, "error", err)
		writeServiceError(c, upstreamUnavailable("failed to update sqn"))
		return
	}
	logger.ConfigLog.Infof("subscriber [%v] sqn updated", imsi)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "imsi": imsi})
}

// PostBulkSubscribers godoc
//
// @Description  Admit up to size subscribers from the bulk-import CSV;
// @Description  rows with known IMSIs or malformed key material are skipped
// @Tags         Subscribers
// @Param        size    query    string    true    "Maximum admissions"
// @Produce      json
// @Success      200  {object}  nil  "Count of admitted subscribers"
// @Failure      400  {object}  nil  "size below 1"
// @Failure      404  {object}  nil  "Bulk source not found"
// @Router       /api/v1.0/subscribers/bulk  [post]
func PostBulkSubscribers(c *gin.Context) {
	setCorsHeader(c)
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size < 1 {
		writeServiceError(c, badRequest("size must be an integer >= 1"))
		return
	}
	source := bulkImportFile()
	f, err := os.Open(source)
	if err != nil {
		logger.ConfigLog.Errorf("bulk source [%v] not readable: %v", source, err)
		writeServiceError(c, notFound("Bulk source not found"))
		return
	}
	defer f.Close()

	configMu.Lock()
	defer configMu.Unlock()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	added := 0
	for added < size {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.ConfigLog.Errorf("bulk source [%v] read error: %v", source, err)
			break
		}
		if len(row) < 3 {
			continue
		}
		subscriber := configmodels.Subscriber{
			Imsi: strings.TrimSpace(row[0]),
			K:    strings.TrimSpace(row[1]),
			Opc:  strings.TrimSpace(row[2]),
		}
		if len(row) > 3 {
			subscriber.GroupName = strings.TrimSpace(row[3])
		}
		if !isValidImsi(subscriber.Imsi) || !isHex32(subscriber.K) || !isHex32(subscriber.Opc) {
			continue
		}
		existing, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, bson.M{"imsi": subscriber.Imsi})
		if err != nil || len(existing) != 0 {
			continue
		}
		// bulk import is the one path allowed to create a group on
		// first reference
		if subscriber.GroupName != "" {
			if err = addImsiToGroup(subscriber.GroupName, subscriber.Imsi, true); err != nil {
				logger.DbLog.Errorw("failed to update group", "group", subscriber.GroupName, "error", err)
				continue
			}
		}
		if serr := admitBulkSubscriberLocked(&subscriber); serr != nil {
			continue
		}
		added++
	}
	logger.ConfigLog.Infof("bulk import admitted %v subscribers from [%v]", added, source)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "added": added})
}

func admitBulkSubscriberLocked(subscriber *configmodels.Subscriber) *ServiceError {
	filter := bson.M{"imsi": subscriber.Imsi}
	if _, err := dbadapter.CommonDBClient.RestfulAPIPutOne(subscriberDataColl, filter, configmodels.ToBsonM(subscriber)); err != nil {
		logger.DbLog.Errorw("failed to store subscriber", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	seq, err := nextSubscriberSeq()
	if err != nil {
		logger.DbLog.Errorw("failed to assign order index", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	entry := configmodels.SubscriberOrderEntry{Imsi: subscriber.Imsi, Seq: seq}
	if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(orderDataColl, filter, configmodels.ToBsonM(&entry)); err != nil {
		logger.DbLog.Errorw("failed to store order index", "imsi", subscriber.Imsi, "error", err)
		return upstreamUnavailable("failed to store subscriber")
	}
	return nil
}

// DeleteBulkSubscribers godoc
//
// @Description  Delete the listed IMSIs; unknown IMSIs are skipped
// @Tags         Subscribers
// @Param        ids    query    string    true    "Comma-separated IMSIs"
// @Produce      json
// @Success      200  {object}  nil  "Count of deleted subscribers"
// @Failure      400  {object}  nil  "ids missing"
// @Router       /api/v1.0/subscribers/bulk  [delete]
func DeleteBulkSubscribers(c *gin.Context) {
	setCorsHeader(c)
	ids := c.Query("ids")
	if strings.TrimSpace(ids) == "" {
		writeServiceError(c, badRequest("ids is required"))
		return
	}
	configMu.Lock()
	defer configMu.Unlock()
	deleted := 0
	for _, raw := range strings.Split(ids, ",") {
		imsi := strings.TrimSpace(raw)
		if imsi == "" {
			continue
		}
		serr, err := deleteSubscriberLocked(imsi)
		if err != nil {
			logger.DbLog.Errorw("failed to delete subscriber", "imsi", imsi, "error", err)
			continue
		}
		if serr != nil {
			continue
		}
		deleted++
	}
	logger.ConfigLog.Infof("bulk delete removed %v subscribers", deleted)
	c.JSON(http.StatusOK, gin.H{"status": "OK", "deleted": deleted})
}

func parseOrderParam(c *gin.Context) int {
	if c.Query("order") == "-1" {
		return -1
	}
	return 1
}

func bulkImportFile() string {
	cfg := factory.SliceMgrConfig.Configuration
	if cfg != nil && cfg.BulkImportFile != "" {
		return cfg.BulkImportFile
	}
	return defaultBulkImportFile
}
