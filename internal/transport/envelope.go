// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import "encoding/json"

// Event names on the realtime channel. These are a fixed contract with the
// Chirp server; the space in "join chat" is part of the protocol.
const (
	// Outbound
	EventSetup      = "setup"
	EventJoinChat   = "join chat"
	EventTyping     = "typing"
	EventStopTyping = "stopTyping"

	// Inbound
	EventConnected       = "connected"
	EventMessageReceived = "messageReceived"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// newEnvelope builds an envelope with the payload marshaled in place.
func newEnvelope(event string, data any) (Envelope, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return env, err
		}
		env.Data = raw
	}
	return env, nil
}
