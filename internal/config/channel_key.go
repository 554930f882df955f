package config

import (
	"fmt"
)

type ChannelKeyStruct struct{}

func NewChannelKeyStruct() *ChannelKeyStruct {
	return &ChannelKeyStruct{}
}

// SessionMonitorChannel returns the Redis PubSub channel for one session's events
func (r *ChannelKeyStruct) SessionMonitorChannel(sessionID string) string {
	return fmt.Sprintf("candidate:session:%s:monitor", sessionID)
}

// MonitorFeedChannel returns the Redis PubSub channel aggregating every session
func (r *ChannelKeyStruct) MonitorFeedChannel() string {
	return "candidate:monitor"
}

var ChannelKey = NewChannelKeyStruct()
