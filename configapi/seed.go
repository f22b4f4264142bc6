// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"fmt"

	"github.com/nemo-testbed/slice-manager/backend/factory"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/configmodels"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"github.com/omec-project/openapi/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ProvisionSeed creates the demo group, profile, default slice and
// tracked subscriber on startup so the testbed comes up with a UE the
// decision engine can follow. Existing entities are left alone, so a
// restart against a persistent backend is harmless.
func ProvisionSeed(seed *factory.Seed) error {
	if seed == nil || seed.Imsi == "" {
		return nil
	}
	if !isHex32(seed.K) || !isHex32(seed.Opc) {
		return fmt.Errorf("seed k/opc must be 32 hex digits")
	}
	configMu.Lock()
	defer configMu.Unlock()

	groupName := seed.GroupName
	if groupName == "" {
		groupName = "nemo-lab"
	}
	profileId := seed.ProfileId
	if profileId == "" {
		profileId = "profile"
	}
	dnn := seed.Dnn
	if dnn == "" {
		dnn = "internet"
	}

	group, err := getGroup(groupName)
	if err != nil {
		return err
	}
	if group == nil {
		groupData := configmodels.SubscriberGroup{GroupName: groupName, Imsis: []string{}}
		if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(groupDataColl, bson.M{"group-name": groupName}, configmodels.ToBsonM(&groupData)); err != nil {
			return err
		}
	}

	existingProfile, err := dbadapter.CommonDBClient.RestfulAPIGetOne(profileDataColl, bson.M{"_id": profileId})
	if err != nil {
		return err
	}
	if len(existingProfile) == 0 {
		profile := configmodels.SubscriptionProfile{
			ProfileId:       profileId,
			Dnn:             dnn,
			Var5gQosProfile: &models.SubscribedDefaultQos{Var5qi: 9},
			SessionAmbr:     &models.Ambr{Uplink: "100 Mbps", Downlink: "100 Mbps"},
		}
		if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(profileDataColl, bson.M{"_id": profileId}, configmodels.ToBsonM(&profile)); err != nil {
			return err
		}
	}

	existingSlice, err := dbadapter.CommonDBClient.RestfulAPIGetOne(sliceDataColl, bson.M{"sliceName": "slice-default"})
	if err != nil {
		return err
	}
	if len(existingSlice) == 0 {
		defaultSlice := configmodels.SliceInstance{
			SliceName:        "slice-default",
			SliceDescription: "Default lab slice",
			ServiceProfile: &configmodels.ServiceProfile{
				PlmnIdList: []configmodels.SlicePlmnId{{Mcc: "999", Mnc: "99"}},
				SnssaiList: []configmodels.SliceSnssai{{Sst: 1, Sd: "000002"}},
				Dnn:        dnn,
			},
		}
		if _, err = dbadapter.CommonDBClient.RestfulAPIPutOne(sliceDataColl, bson.M{"sliceName": "slice-default"}, configmodels.ToBsonM(&defaultSlice)); err != nil {
			return err
		}
	}

	existingSubscriber, err := dbadapter.CommonDBClient.RestfulAPIGetOne(subscriberDataColl, bson.M{"imsi": seed.Imsi})
	if err != nil {
		return err
	}
	if len(existingSubscriber) == 0 {
		subscriber := configmodels.Subscriber{
			Imsi:      seed.Imsi,
			K:         seed.K,
			Opc:       seed.Opc,
			Sqn:       "16f3b3f70fc2",
			GroupName: groupName,
			Profile:   profileId,
			Slice:     "slice-default",
		}
		if serr := admitSubscriberLocked(&subscriber); serr != nil {
			return serr
		}
	}
	logger.InitLog.Infof("seed data provisioned: group [%v], profile [%v], subscriber [%v]", groupName, profileId, seed.Imsi)
	return nil
}
