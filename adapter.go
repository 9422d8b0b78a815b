package gomponent

// catalogue of the events each subsystem raises, by the exported symbol name modules implement.
var catalogue = map[Category][]string{
	Actors:      {"onPlayerGiveDamageActor", "onActorStreamIn", "onActorStreamOut"},
	Checkpoints: {"onPlayerEnterCheckpoint", "onPlayerLeaveCheckpoint", "onPlayerEnterRaceCheckpoint", "onPlayerLeaveRaceCheckpoint"},
	Classes:     {"onPlayerRequestClass"},
	Console:     {"onConsoleText", "onRconLoginAttempt"},
	Dialogs:     {"onDialogResponse"},
	GangZones:   {"onPlayerEnterGangZone", "onPlayerLeaveGangZone", "onPlayerClickGangZone"},
	Menus:       {"onPlayerSelectedMenuRow", "onPlayerExitedMenu"},
	Objects: {"onObjectMoved", "onPlayerObjectMoved", "onObjectSelected", "onPlayerObjectSelected",
		"onObjectEdited", "onPlayerObjectEdited", "onPlayerAttachedObjectEdited"},
	Pickups:   {"onPlayerPickUpPickup"},
	TextDraws: {"onPlayerClickTextDraw", "onPlayerClickPlayerTextDraw", "onPlayerCancelTextDrawSelection"},
	Vehicles: {"onVehicleStreamIn", "onVehicleStreamOut", "onVehicleDeath", "onPlayerEnterVehicle",
		"onPlayerExitVehicle", "onVehicleDamageStatusUpdate", "onVehiclePaintJob", "onVehicleMod",
		"onVehicleRespray", "onEnterExitModShop", "onVehicleSpawn", "onUnoccupiedVehicleUpdate",
		"onTrailerUpdate", "onVehicleSirenStateChange"},
	CustomModels: {"onPlayerFinishedDownloading", "onPlayerRequestDownload"},
}

var playerCatalogue = [playerDispatchCount][]string{
	PlayerSpawn:   {"onPlayerRequestSpawn", "onPlayerSpawn"},
	PlayerConnect: {"onIncomingConnection", "onPlayerConnect", "onPlayerDisconnect"},
	PlayerStream:  {"onPlayerStreamIn", "onPlayerStreamOut"},
	PlayerText:    {"onPlayerText", "onPlayerCommandText"},
	PlayerShot:    {"onPlayerWeaponShot"},
	PlayerChange:  {"onPlayerScoreChange", "onPlayerNameChange", "onPlayerInteriorChange", "onPlayerStateChange", "onPlayerKeyStateChange"},
	PlayerDamage:  {"onPlayerDeath", "onPlayerTakeDamage", "onPlayerGiveDamage"},
	PlayerClick:   {"onPlayerClickMap", "onPlayerClickPlayer"},
	PlayerCheck:   {"onClientCheckResponse"},
	PlayerUpdate:  {"onPlayerUpdate"},
}

// Events lists the event names raised by subsystem c.
func Events(c Category) []string {
	return catalogue[c]
}

// PlayerEvents lists the event names raised by player dispatcher d.
func PlayerEvents(d PlayerDispatch) []string {
	if d < playerDispatchCount {
		return playerCatalogue[d]
	}
	return nil
}

// Adapter is the handler shared by every dispatcher of one subsystem category.
// It forwards each event to the gamemode, then to the plugin.
type Adapter struct {
	name string
	hub  *Hub
}

func (a *Adapter) String() string { return a.name }

// HandleEvent forwards e to the loaded extensions. A module returning false vetoes the event,
// events no module exports are allowed.
func (a *Adapter) HandleEvent(e Event) bool {
	allow := true
	for _, ext := range [...]*Extension{a.hub.gamemode, a.hub.plugin} {
		//event symbols return a C bool, the upper bits of the register are undefined
		if r, ok := ext.Forward(e); ok && uint8(r) == 0 {
			allow = false
		}
	}
	if a.hub.debug {
		a.hub.logf(LogDebug, "%s event %s(%v) allow=%v", a.name, e.Name, e.Args, allow)
	}
	return allow
}
