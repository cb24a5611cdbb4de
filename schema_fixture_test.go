package ari

import "github.com/asterisk-go/ari/internal/schema"

// buildTestSchema returns a small hand-built Schema covering the channels
// and bridges resources and a couple of event models, standing in for what
// Loader.Load would have produced from a real server's documents. Used by
// every test in this package that needs a populated Client without talking
// to the network.
func buildTestSchema() *schema.Schema {
	channels := &schema.Resource{
		Name: "channels",
		Operations: []schema.Operation{
			{
				Name:         "list",
				Method:       "GET",
				PathTemplate: "/channels",
				Response:     schema.Response{Kind: schema.ResponseList, Model: "Channel"},
			},
			{
				Name:         "originate",
				Method:       "POST",
				PathTemplate: "/channels",
				Parameters: []schema.Parameter{
					{Name: "endpoint", Location: schema.ParamQuery, Required: true, DataType: "string"},
					{Name: "app", Location: schema.ParamQuery, Required: false, DataType: "string"},
					{Name: "variables", Location: schema.ParamBody, Required: false, DataType: "Variables", Variables: true},
				},
				Response: schema.Response{Kind: schema.ResponseModel, Model: "Channel"},
			},
			{
				Name:         "get",
				Method:       "GET",
				PathTemplate: "/channels/{channelId}",
				Parameters: []schema.Parameter{
					{Name: "channelId", Location: schema.ParamPath, Required: true, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseModel, Model: "Channel"},
			},
			{
				Name:         "hangup",
				Method:       "DELETE",
				PathTemplate: "/channels/{channelId}",
				Parameters: []schema.Parameter{
					{Name: "channelId", Location: schema.ParamPath, Required: true, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseNone},
			},
			{
				Name:         "answer",
				Method:       "POST",
				PathTemplate: "/channels/{channelId}/answer",
				Parameters: []schema.Parameter{
					{Name: "channelId", Location: schema.ParamPath, Required: true, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseNone},
			},
		},
	}

	bridges := &schema.Resource{
		Name: "bridges",
		Operations: []schema.Operation{
			{
				Name:         "create",
				Method:       "POST",
				PathTemplate: "/bridges",
				Parameters: []schema.Parameter{
					{Name: "type", Location: schema.ParamQuery, Required: false, DataType: "string"},
					{Name: "bridgeId", Location: schema.ParamQuery, Required: false, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseModel, Model: "Bridge"},
			},
			{
				Name:         "get",
				Method:       "GET",
				PathTemplate: "/bridges/{bridgeId}",
				Parameters: []schema.Parameter{
					{Name: "bridgeId", Location: schema.ParamPath, Required: true, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseModel, Model: "Bridge"},
			},
			{
				Name:         "destroy",
				Method:       "DELETE",
				PathTemplate: "/bridges/{bridgeId}",
				Parameters: []schema.Parameter{
					{Name: "bridgeId", Location: schema.ParamPath, Required: true, DataType: "string"},
				},
				Response: schema.Response{Kind: schema.ResponseNone},
			},
		},
	}

	events := map[string]*schema.EventModel{
		"StasisStart": {
			Name: "StasisStart",
			Properties: []schema.EventProperty{
				{Name: "application", DataType: "string"},
				{Name: "channel", DataType: "Channel", Promotable: true},
			},
		},
		"StasisEnd": {
			Name: "StasisEnd",
			Properties: []schema.EventProperty{
				{Name: "channel", DataType: "Channel", Promotable: true},
			},
		},
		"ChannelDtmfReceived": {
			Name: "ChannelDtmfReceived",
			Properties: []schema.EventProperty{
				{Name: "digit", DataType: "string"},
				{Name: "channel", DataType: "Channel", Promotable: true},
			},
		},
		"BridgeDestroyed": {
			Name: "BridgeDestroyed",
			Properties: []schema.EventProperty{
				{Name: "bridge", DataType: "Bridge", Promotable: true},
			},
		},
		"ChannelEnteredBridge": {
			Name: "ChannelEnteredBridge",
			Properties: []schema.EventProperty{
				{Name: "channel", DataType: "Channel", Promotable: true},
				{Name: "bridge", DataType: "Bridge", Promotable: true},
			},
		},
	}

	return &schema.Schema{
		Resources: map[string]*schema.Resource{"channels": channels, "bridges": bridges},
		Events:    events,
	}
}
