// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package configapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

type Routes []Route

func AddService(engine *gin.Engine, groupPath string, routes Routes) *gin.RouterGroup {
	group := engine.Group(groupPath)
	for _, route := range routes {
		switch route.Method {
		case http.MethodGet:
			group.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			group.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			group.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			group.DELETE(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			group.PATCH(route.Pattern, route.HandlerFunc)
		}
	}
	return group
}

func AddApiService(engine *gin.Engine) *gin.RouterGroup {
	return AddService(engine, "/api/v1.0", apiRoutes)
}

// Subscriber collection sub-resources (by-group, by-batch, total-count,
// bulk, sqn) share the path position of the IMSI segment, so the param
// routes dispatch on the segment value.

func subscribersGetDispatch(c *gin.Context) {
	switch c.Param("imsi") {
	case "by-group":
		GetSubscribersByGroup(c)
	case "by-batch":
		GetSubscribersByRange(c)
	case "total-count":
		GetSubscriberCount(c)
	default:
		GetSubscriberByIMSI(c)
	}
}

func subscribersPostDispatch(c *gin.Context) {
	if c.Param("imsi") == "bulk" {
		PostBulkSubscribers(c)
		return
	}
	writeServiceError(c, notFound("unknown subscriber operation"))
}

func subscribersDeleteDispatch(c *gin.Context) {
	if c.Param("imsi") == "bulk" {
		DeleteBulkSubscribers(c)
		return
	}
	DeleteSubscriber(c)
}

func subscribersNestedPutDispatch(c *gin.Context) {
	if c.Param("imsi") == "sqn" {
		UpdateSubscriberSqn(c)
		return
	}
	writeServiceError(c, notFound("unknown subscriber operation"))
}

var apiRoutes = Routes{
	{
		"GetSliceInstances",
		http.MethodGet,
		"/slice-instance",
		GetSliceInstances,
	},

	{
		"PostSliceInstance",
		http.MethodPost,
		"/slice-instance",
		PostSliceInstance,
	},

	{
		"GetSliceInstance",
		http.MethodGet,
		"/slice-instance/:sliceName",
		GetSliceInstance,
	},

	{
		"PutSliceInstance",
		http.MethodPut,
		"/slice-instance/:sliceName",
		PutSliceInstance,
	},

	{
		"DeleteSliceInstance",
		http.MethodDelete,
		"/slice-instance/:sliceName",
		DeleteSliceInstance,
	},

	{
		"GetSubscriptionProfiles",
		http.MethodGet,
		"/subscription-profile",
		GetSubscriptionProfiles,
	},

	{
		"PostSubscriptionProfile",
		http.MethodPost,
		"/subscription-profile",
		PostSubscriptionProfile,
	},

	{
		"PutSubscriptionProfile",
		http.MethodPut,
		"/subscription-profile/:profileId",
		PutSubscriptionProfile,
	},

	{
		"DeleteSubscriptionProfile",
		http.MethodDelete,
		"/subscription-profile/:profileId",
		DeleteSubscriptionProfile,
	},

	{
		"GetSubscribers",
		http.MethodGet,
		"/subscribers",
		GetSubscribers,
	},

	{
		"PostSubscriber",
		http.MethodPost,
		"/subscribers",
		PostSubscriber,
	},

	{
		"GetSubscriberOrCollectionView",
		http.MethodGet,
		"/subscribers/:imsi",
		subscribersGetDispatch,
	},

	{
		"PutSubscriber",
		http.MethodPut,
		"/subscribers/:imsi",
		PutSubscriber,
	},

	{
		"DeleteSubscriberOrBulk",
		http.MethodDelete,
		"/subscribers/:imsi",
		subscribersDeleteDispatch,
	},

	{
		"PostBulkSubscribers",
		http.MethodPost,
		"/subscribers/:imsi",
		subscribersPostDispatch,
	},

	{
		"UpdateSubscriberSqn",
		http.MethodPut,
		"/subscribers/:imsi/:value",
		subscribersNestedPutDispatch,
	},

	{
		"GetUsageReport",
		http.MethodGet,
		"/usage-report",
		GetUsageReport,
	},
}
