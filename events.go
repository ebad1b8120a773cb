// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

// ParamKind is the shape of one event argument.
type ParamKind int

const (
	ParamInt   ParamKind = iota // Entity identifiers, enumerations, counters
	ParamFloat                  // Coordinates and amounts
	ParamText                   // Immutable text
)

// String returns the string representation of a ParamKind.
func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "integer"
	case ParamFloat:
		return "float"
	case ParamText:
		return "text"
	default:
		return "unknown"
	}
}

// Param describes one event argument.
type Param struct {
	Name string
	Kind ParamKind
}

// Event describes one host event hook. Handler names are part of the
// contract with existing scripts and never change.
type Event struct {
	Name     string  // Handler name looked up in every context
	Params   []Param // Ordered argument list
	Decision bool    // Whether the host acts on a returned decision
	Default  bool    // Decision used when no context responds
}

func ints(names ...string) []Param {
	params := make([]Param, len(names))
	for i, name := range names {
		params[i] = Param{Name: name, Kind: ParamInt}
	}
	return params
}

func shotParams(target string) []Param {
	params := ints("playerid")
	if target != "" {
		params = append(params, Param{target, ParamInt})
	}
	return append(params,
		Param{"weaponid", ParamInt},
		Param{"fX", ParamFloat},
		Param{"fY", ParamFloat},
		Param{"fZ", ParamFloat},
	)
}

var (
	EventIncomingConnection = &Event{Name: "OnIncomingConnection", Params: []Param{
		{"playerid", ParamInt}, {"ipAddress", ParamText}, {"port", ParamInt},
	}}
	EventPlayerConnect    = &Event{Name: "OnPlayerConnect", Params: ints("playerid")}
	EventPlayerDisconnect = &Event{Name: "OnPlayerDisconnect", Params: ints("playerid", "reason")}
	EventPlayerClientInit = &Event{Name: "OnPlayerClientInit", Params: ints("playerid")}

	EventPlayerRequestSpawn = &Event{Name: "OnPlayerRequestSpawn", Params: ints("playerid"), Decision: true, Default: true}
	EventPlayerSpawn        = &Event{Name: "OnPlayerSpawn", Params: ints("playerid")}

	EventPlayerStreamIn  = &Event{Name: "OnPlayerStreamIn", Params: ints("playerid", "forplayerid")}
	EventPlayerStreamOut = &Event{Name: "OnPlayerStreamOut", Params: ints("playerid", "forplayerid")}

	EventPlayerText = &Event{Name: "OnPlayerText", Params: []Param{
		{"playerid", ParamInt}, {"text", ParamText},
	}, Decision: true, Default: true}
	EventPlayerCommandText = &Event{Name: "OnPlayerCommandText", Params: []Param{
		{"playerid", ParamInt}, {"cmdtext", ParamText},
	}, Decision: true, Default: false}

	EventPlayerShotMissed       = &Event{Name: "OnPlayerShotMissed", Params: shotParams(""), Decision: true, Default: true}
	EventPlayerShotPlayer       = &Event{Name: "OnPlayerShotPlayer", Params: shotParams("targetid"), Decision: true, Default: true}
	EventPlayerShotVehicle      = &Event{Name: "OnPlayerShotVehicle", Params: shotParams("vehicleid"), Decision: true, Default: true}
	EventPlayerShotObject       = &Event{Name: "OnPlayerShotObject", Params: shotParams("objectid"), Decision: true, Default: true}
	EventPlayerShotPlayerObject = &Event{Name: "OnPlayerShotPlayerObject", Params: shotParams("objectid"), Decision: true, Default: true}

	EventPlayerScoreChange = &Event{Name: "OnPlayerScoreChange", Params: ints("playerid", "score")}
	EventPlayerNameChange  = &Event{Name: "OnPlayerNameChange", Params: []Param{
		{"playerid", ParamInt}, {"oldname", ParamText},
	}}
	EventPlayerInteriorChange = &Event{Name: "OnPlayerInteriorChange", Params: ints("playerid", "newinterior", "oldinterior")}
	EventPlayerStateChange    = &Event{Name: "OnPlayerStateChange", Params: ints("playerid", "newstate", "oldstate")}
	EventPlayerKeyStateChange = &Event{Name: "OnPlayerKeyStateChange", Params: ints("playerid", "newkeys", "oldkeys")}

	EventPlayerDeath      = &Event{Name: "OnPlayerDeath", Params: ints("playerid", "killerid", "reason")}
	EventPlayerTakeDamage = &Event{Name: "OnPlayerTakeDamage", Params: []Param{
		{"playerid", ParamInt}, {"issuerid", ParamInt}, {"amount", ParamFloat}, {"weaponid", ParamInt}, {"bodypart", ParamInt},
	}}
	EventPlayerGiveDamage = &Event{Name: "OnPlayerGiveDamage", Params: []Param{
		{"playerid", ParamInt}, {"damagedid", ParamInt}, {"amount", ParamFloat}, {"weaponid", ParamInt}, {"bodypart", ParamInt},
	}}

	EventPlayerClickMap = &Event{Name: "OnPlayerClickMap", Params: []Param{
		{"playerid", ParamInt}, {"fX", ParamFloat}, {"fY", ParamFloat}, {"fZ", ParamFloat},
	}}
	EventPlayerClickPlayer   = &Event{Name: "OnPlayerClickPlayer", Params: ints("playerid", "clickedplayerid", "source")}
	EventClientCheckResponse = &Event{Name: "OnClientCheckResponse", Params: ints("playerid", "actiontype", "address", "results")}

	EventPlayerUpdate = &Event{Name: "OnPlayerUpdate", Params: ints("playerid", "tickms"), Decision: true, Default: true}
)

var events = []*Event{
	EventIncomingConnection,
	EventPlayerConnect,
	EventPlayerDisconnect,
	EventPlayerClientInit,
	EventPlayerRequestSpawn,
	EventPlayerSpawn,
	EventPlayerStreamIn,
	EventPlayerStreamOut,
	EventPlayerText,
	EventPlayerCommandText,
	EventPlayerShotMissed,
	EventPlayerShotPlayer,
	EventPlayerShotVehicle,
	EventPlayerShotObject,
	EventPlayerShotPlayerObject,
	EventPlayerScoreChange,
	EventPlayerNameChange,
	EventPlayerInteriorChange,
	EventPlayerStateChange,
	EventPlayerKeyStateChange,
	EventPlayerDeath,
	EventPlayerTakeDamage,
	EventPlayerGiveDamage,
	EventPlayerClickMap,
	EventPlayerClickPlayer,
	EventClientCheckResponse,
	EventPlayerUpdate,
}

var eventsByName = func() map[string]*Event {
	m := make(map[string]*Event, len(events))
	for _, e := range events {
		m[e.Name] = e
	}
	return m
}()

// Events returns every host event in a fixed order.
func Events() []*Event {
	out := make([]*Event, len(events))
	copy(out, events)
	return out
}

// LookupEvent finds an event by handler name.
func LookupEvent(name string) (*Event, bool) {
	e, ok := eventsByName[name]
	return e, ok
}
