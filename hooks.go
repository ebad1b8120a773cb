// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import "time"

// NoEntity is passed for optional entity references, e.g. a death without a killer.
const NoEntity = -1

// Vector3 is a position or offset in world space.
type Vector3 struct {
	X, Y, Z float32
}

// BulletData describes one weapon shot.
type BulletData struct {
	Weapon int     // Weapon identifier
	Offset Vector3 // Hit offset relative to the hit entity, or world position on a miss
}

func (b *Bridge) decide(event *Event, args ...any) bool {
	return b.Dispatch(event, args...).Decision
}

func (b *Bridge) notify(event *Event, args ...any) {
	b.Dispatch(event, args...)
}

func (b *Bridge) OnIncomingConnection(playerID int, ipAddress string, port uint16) {
	b.notify(EventIncomingConnection, playerID, ipAddress, port)
}

func (b *Bridge) OnPlayerConnect(playerID int) {
	b.notify(EventPlayerConnect, playerID)
}

func (b *Bridge) OnPlayerDisconnect(playerID int, reason int) {
	b.notify(EventPlayerDisconnect, playerID, reason)
}

func (b *Bridge) OnPlayerClientInit(playerID int) {
	b.notify(EventPlayerClientInit, playerID)
}

// OnPlayerRequestSpawn reports whether the player may spawn.
func (b *Bridge) OnPlayerRequestSpawn(playerID int) bool {
	return b.decide(EventPlayerRequestSpawn, playerID)
}

func (b *Bridge) OnPlayerSpawn(playerID int) {
	b.notify(EventPlayerSpawn, playerID)
}

func (b *Bridge) OnPlayerStreamIn(playerID, forPlayerID int) {
	b.notify(EventPlayerStreamIn, playerID, forPlayerID)
}

func (b *Bridge) OnPlayerStreamOut(playerID, forPlayerID int) {
	b.notify(EventPlayerStreamOut, playerID, forPlayerID)
}

// OnPlayerText reports whether the chat message should be sent.
func (b *Bridge) OnPlayerText(playerID int, text string) bool {
	return b.decide(EventPlayerText, playerID, text)
}

// OnPlayerCommandText reports whether a script handled the command.
func (b *Bridge) OnPlayerCommandText(playerID int, cmdText string) bool {
	return b.decide(EventPlayerCommandText, playerID, cmdText)
}

func (b *Bridge) OnPlayerShotMissed(playerID int, bullet BulletData) bool {
	return b.decide(EventPlayerShotMissed, playerID, bullet.Weapon,
		bullet.Offset.X, bullet.Offset.Y, bullet.Offset.Z)
}

func (b *Bridge) OnPlayerShotPlayer(playerID, targetID int, bullet BulletData) bool {
	return b.decide(EventPlayerShotPlayer, playerID, targetID, bullet.Weapon,
		bullet.Offset.X, bullet.Offset.Y, bullet.Offset.Z)
}

func (b *Bridge) OnPlayerShotVehicle(playerID, vehicleID int, bullet BulletData) bool {
	return b.decide(EventPlayerShotVehicle, playerID, vehicleID, bullet.Weapon,
		bullet.Offset.X, bullet.Offset.Y, bullet.Offset.Z)
}

func (b *Bridge) OnPlayerShotObject(playerID, objectID int, bullet BulletData) bool {
	return b.decide(EventPlayerShotObject, playerID, objectID, bullet.Weapon,
		bullet.Offset.X, bullet.Offset.Y, bullet.Offset.Z)
}

func (b *Bridge) OnPlayerShotPlayerObject(playerID, objectID int, bullet BulletData) bool {
	return b.decide(EventPlayerShotPlayerObject, playerID, objectID, bullet.Weapon,
		bullet.Offset.X, bullet.Offset.Y, bullet.Offset.Z)
}

func (b *Bridge) OnPlayerScoreChange(playerID, score int) {
	b.notify(EventPlayerScoreChange, playerID, score)
}

func (b *Bridge) OnPlayerNameChange(playerID int, oldName string) {
	b.notify(EventPlayerNameChange, playerID, oldName)
}

func (b *Bridge) OnPlayerInteriorChange(playerID int, newInterior, oldInterior uint32) {
	b.notify(EventPlayerInteriorChange, playerID, newInterior, oldInterior)
}

func (b *Bridge) OnPlayerStateChange(playerID, newState, oldState int) {
	b.notify(EventPlayerStateChange, playerID, newState, oldState)
}

func (b *Bridge) OnPlayerKeyStateChange(playerID int, newKeys, oldKeys uint32) {
	b.notify(EventPlayerKeyStateChange, playerID, newKeys, oldKeys)
}

// OnPlayerDeath takes NoEntity as killerID when nobody killed the player.
func (b *Bridge) OnPlayerDeath(playerID, killerID, reason int) {
	b.notify(EventPlayerDeath, playerID, killerID, reason)
}

// OnPlayerTakeDamage takes NoEntity as issuerID for environmental damage.
func (b *Bridge) OnPlayerTakeDamage(playerID, issuerID int, amount float32, weapon uint32, bodyPart int) {
	b.notify(EventPlayerTakeDamage, playerID, issuerID, amount, weapon, bodyPart)
}

func (b *Bridge) OnPlayerGiveDamage(playerID, damagedID int, amount float32, weapon uint32, bodyPart int) {
	b.notify(EventPlayerGiveDamage, playerID, damagedID, amount, weapon, bodyPart)
}

func (b *Bridge) OnPlayerClickMap(playerID int, pos Vector3) {
	b.notify(EventPlayerClickMap, playerID, pos.X, pos.Y, pos.Z)
}

func (b *Bridge) OnPlayerClickPlayer(playerID, clickedID, source int) {
	b.notify(EventPlayerClickPlayer, playerID, clickedID, source)
}

func (b *Bridge) OnClientCheckResponse(playerID, actionType, address, results int) {
	b.notify(EventClientCheckResponse, playerID, actionType, address, results)
}

// OnPlayerUpdate reports whether the update should be processed.
func (b *Bridge) OnPlayerUpdate(playerID int, now time.Time) bool {
	return b.decide(EventPlayerUpdate, playerID, now.UnixMilli())
}
