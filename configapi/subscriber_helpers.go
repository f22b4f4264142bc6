// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"encoding/json"
	"sort"

	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"go.mongodb.org/mongo-driver/bson"
)

// nextSubscriberSeq assigns the next admission sequence number. Called
// under configMu so two admissions never share a sequence.
func nextSubscriberSeq() (int64, error) {
	entries, err := dbadapter.CommonDBClient.RestfulAPIGetMany(orderDataColl, bson.M{})
	if err != nil {
		return 0, err
	}
	var maxSeq int64
	for _, raw := range entries {
		var entry configmodels.SubscriberOrderEntry
		if err = json.Unmarshal(configmodels.MapToByte(raw), &entry); err != nil {
			continue
		}
		if entry.Seq > maxSeq {
			maxSeq = entry.Seq
		}
	}
	return maxSeq + 1, nil
}

// orderedImsis returns every admitted IMSI in insertion order. The order
// index lives in its own collection so the ordering survives a backend
// swap.
func orderedImsis() ([]string, error) {
	rawEntries, err := dbadapter.CommonDBClient.RestfulAPIGetMany(orderDataColl, bson.M{})
	if err != nil {
		return nil, err
	}
	entries := make([]configmodels.SubscriberOrderEntry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var entry configmodels.SubscriberOrderEntry
		if err = json.Unmarshal(configmodels.MapToByte(raw), &entry); err != nil {
			logger.DbLog.Errorf("could not unmarshal order entry %v", raw)
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	imsis := make([]string, 0, len(entries))
	for _, entry := range entries {
		imsis = append(imsis, entry.Imsi)
	}
	return imsis, nil
}

// orderedSubscribers resolves the insertion-ordered subscriber records,
// reversed when order is -1.
func orderedSubscribers(order int) ([]configmodels.Subscriber, error) {
	imsis, err := orderedImsis()
	if err != nil {
		return nil, err
	}
	subscribers := make([]configmodels.Subscriber, 0, len(imsis))
	for _, imsi := range imsis {
		rawSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, bson.M{"imsi": imsi})
		if err != nil || len(rawSubscriber) == 0 {
			continue
		}
		var subscriberData configmodels.Subscriber
		if err = json.Unmarshal(configmodels.MapToByte(rawSubscriber), &subscriberData); err != nil {
			logger.DbLog.Errorf("could not unmarshal subscriber %v", rawSubscriber)
			continue
		}
		subscribers = append(subscribers, subscriberData)
	}
	if order == -1 {
		reverseSubscribers(subscribers)
	}
	return subscribers, nil
}

func reverseSubscribers(subscribers []configmodels.Subscriber) {
	for i, j := 0, len(subscribers)-1; i < j; i, j = i+1, j-1 {
		subscribers[i], subscribers[j] = subscribers[j], subscribers[i]
	}
}

func getGroup(groupName string) (*configmodels.SubscriberGroup, error) {
	rawGroup, err := dbadapter.CommonDBClient.RestfulAPIGetOne(groupDataColl, bson.M{"group-name": groupName})
	if err != nil {
		return nil, err
	}
	if len(rawGroup) == 0 {
		return nil, nil
	}
	var groupData configmodels.SubscriberGroup
	if err = json.Unmarshal(configmodels.MapToByte(rawGroup), &groupData); err != nil {
		return nil, err
	}
	return &groupData, nil
}

// addImsiToGroup appends the IMSI to the group member list if not already
// present. With create set, a missing group is created on first reference,
// which is only allowed through the bulk-import path.
func addImsiToGroup(groupName, imsi string, create bool) error {
	group, err := getGroup(groupName)
	if err != nil {
		return err
	}
	if group == nil {
		if !create {
			return nil
		}
		group = &configmodels.SubscriberGroup{GroupName: groupName, Imsis: []string{}}
	}
	for _, member := range group.Imsis {
		if member == imsi {
			return nil
		}
	}
	group.Imsis = append(group.Imsis, imsi)
	_, err = dbadapter.CommonDBClient.RestfulAPIPutOne(groupDataColl, bson.M{"group-name": groupName}, configmodels.ToBsonM(group))
	return err
}

// removeImsiFromAllGroups cascades a subscriber removal through every
// group member list.
func removeImsiFromAllGroups(imsi string) error {
	rawGroups, err := dbadapter.CommonDBClient.RestfulAPIGetMany(groupDataColl, bson.M{})
	if err != nil {
		return err
	}
	for _, rawGroup := range rawGroups {
		var groupData configmodels.SubscriberGroup
		if err = json.Unmarshal(configmodels.MapToByte(rawGroup), &groupData); err != nil {
			logger.DbLog.Errorf("could not unmarshal group %v", rawGroup)
			continue
		}
		members := make([]string, 0, len(groupData.Imsis))
		removed := false
		for _, member := range groupData.Imsis {
			if member == imsi {
				removed = true
				continue
			}
			members = append(members, member)
		}
		if !removed {
			continue
		}
		groupData.Imsis = members
		if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(groupDataColl, bson.M{"group-name": groupData.GroupName}, configmodels.ToBsonM(&groupData)); err != nil {
			return err
		}
	}
	return nil
}

// deleteSubscriberLocked removes the subscriber record and cascades
// through the group member lists and the order index. Caller holds
// configMu.
func deleteSubscriberLocked(imsi string) (*ServiceError, error) {
	filter := bson.M{"imsi": imsi}
	rawSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, filter)
	if err != nil {
		return nil, err
	}
	if len(rawSubscriber) == 0 {
		return notFound("Subscriber not found"), nil
	}
	if err = dbadapter.CommonDBClient.RestfulAPIDeleteOne(subscriberDataColl, filter); err != nil {
		return nil, err
	}
	if err = removeImsiFromAllGroups(imsi); err != nil {
		return nil, err
	}
	if err = dbadapter.CommonDBClient.RestfulAPIDeleteOne(orderDataColl, filter); err != nil {
		return nil, err
	}
	return nil, nil
}
