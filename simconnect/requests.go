package simconnect

import (
	"fmt"

	"github.com/simlink-project/simlink/protocol"
)

// Outbound commands. Each method validates its arguments locally, lays the
// payload out in the session's send scratch buffer in the exact order and
// width its opcode expects, and hands the frame to the transport. Version
// gates reject before any bytes are written.

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// MapClientEventToSimEvent associates a client-chosen event id with a named
// simulator event. An empty name creates a private client event.
func (c *Client) MapClientEventToSimEvent(eventID uint32, simEventName string) error {
	return c.send(protocol.OpMapClientEventToSimEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(eventID)
		b.WriteString(simEventName, 256)
	})
}

// TransmitClientEvent fires an event at an object. objectID may be
// protocol.ObjectIDUser or a server-assigned id.
func (c *Client) TransmitClientEvent(objectID, eventID, data, groupID, flags uint32) error {
	return c.send(protocol.OpTransmitClientEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(objectID)
		b.WriteUint32(eventID)
		b.WriteUint32(data)
		b.WriteUint32(groupID)
		b.WriteUint32(flags)
	})
}

// SetSystemEventState turns a subscribed system event on or off without
// dropping the subscription.
func (c *Client) SetSystemEventState(eventID uint32, on bool) error {
	return c.send(protocol.OpSetSystemEventState, func(b *protocol.DataBuffer) {
		b.WriteUint32(eventID)
		b.WriteUint32(boolWord(on))
	})
}

// AddClientEventToNotificationGroup adds a client event to a notification
// group, optionally as maskable.
func (c *Client) AddClientEventToNotificationGroup(groupID, eventID uint32, maskable bool) error {
	return c.send(protocol.OpAddClientEventToNotificationGrp, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(eventID)
		b.WriteUint32(boolWord(maskable))
	})
}

// RemoveClientEvent removes a client event from a notification group.
func (c *Client) RemoveClientEvent(groupID, eventID uint32) error {
	return c.send(protocol.OpRemoveClientEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(eventID)
	})
}

// SetNotificationGroupPriority assigns a group's priority. The server
// rejects two groups sharing one priority.
func (c *Client) SetNotificationGroupPriority(groupID, priority uint32) error {
	return c.send(protocol.OpSetNotificationGroupPriority, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(priority)
	})
}

// ClearNotificationGroup removes every event from a notification group.
func (c *Client) ClearNotificationGroup(groupID uint32) error {
	return c.send(protocol.OpClearNotificationGroup, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
	})
}

// RequestNotificationGroup requests events from a notification group.
func (c *Client) RequestNotificationGroup(groupID, reserved, flags uint32) error {
	return c.send(protocol.OpRequestNotificationGroup, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(reserved)
		b.WriteUint32(flags)
	})
}

// AddToDataDefinition appends one (name, unit, type, epsilon, datum id)
// entry to a data definition. The unit may be empty for types that carry
// their own.
func (c *Client) AddToDataDefinition(defineID uint32, name, unit string, typ protocol.DataType, epsilon float32, datumID uint32) error {
	if typ > protocol.DataTypeXYZ {
		return fmt.Errorf("add to data definition: %w: data type %d", ErrInvalidEnum, typ)
	}
	return c.send(protocol.OpAddToDataDefinition, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
		b.WriteString(name, 256)
		b.WriteString(unit, 256)
		b.WriteUint32(uint32(typ))
		b.WriteFloat32(epsilon)
		b.WriteUint32(datumID)
	})
}

// ClearDataDefinition discards all entries of a data definition.
func (c *Client) ClearDataDefinition(defineID uint32) error {
	return c.send(protocol.OpClearDataDefinition, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
	})
}

// RequestDataOnSimObject asks for telemetry rows shaped by a data
// definition, repeated per the period.
func (c *Client) RequestDataOnSimObject(requestID, defineID, objectID uint32, period protocol.Period, flags, origin, interval, limit uint32) error {
	if !period.Valid() {
		return fmt.Errorf("request data on sim object: %w: period %d", ErrInvalidEnum, period)
	}
	return c.send(protocol.OpRequestDataOnSimObject, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteUint32(defineID)
		b.WriteUint32(objectID)
		b.WriteUint32(uint32(period))
		b.WriteUint32(flags)
		b.WriteUint32(origin)
		b.WriteUint32(interval)
		b.WriteUint32(limit)
	})
}

// RequestDataOnSimObjectType asks for one telemetry row per object of the
// given type within radiusMeters of the user vehicle.
func (c *Client) RequestDataOnSimObjectType(requestID, defineID, radiusMeters uint32, typ protocol.SimObjectType) error {
	if typ > protocol.SimObjectTypeGround {
		return fmt.Errorf("request data on sim object type: %w: object type %d", ErrInvalidEnum, typ)
	}
	return c.send(protocol.OpRequestDataOnSimObjectType, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteUint32(defineID)
		b.WriteUint32(radiusMeters)
		b.WriteUint32(uint32(typ))
	})
}

// SetDataOnSimObject pushes a data-definition-shaped payload onto an object.
// An arrayCount of zero is coerced to one.
func (c *Client) SetDataOnSimObject(defineID, objectID uint32, tagged bool, arrayCount uint32, data []byte) error {
	if arrayCount == 0 {
		arrayCount = 1
	}
	count := arrayCount
	return c.send(protocol.OpSetDataOnSimObject, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
		b.WriteUint32(objectID)
		b.WriteUint32(boolWord(tagged))
		b.WriteUint32(count)
		b.WriteUint32(uint32(len(data)))
		b.WriteBytes(data)
	})
}

// MapInputEventToClientEvent binds an input definition string (for example
// "shift+ctrl+u") to down/up client events within an input group.
func (c *Client) MapInputEventToClientEvent(groupID uint32, inputDefinition string, downEventID, downValue, upEventID, upValue uint32, maskable bool) error {
	return c.send(protocol.OpMapInputEventToClientEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteString(inputDefinition, 256)
		b.WriteUint32(downEventID)
		b.WriteUint32(downValue)
		b.WriteUint32(upEventID)
		b.WriteUint32(upValue)
		b.WriteUint32(boolWord(maskable))
	})
}

// SetInputGroupPriority assigns an input group's priority.
func (c *Client) SetInputGroupPriority(groupID, priority uint32) error {
	return c.send(protocol.OpSetInputGroupPriority, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(priority)
	})
}

// RemoveInputEvent removes one input definition from an input group.
func (c *Client) RemoveInputEvent(groupID uint32, inputDefinition string) error {
	return c.send(protocol.OpRemoveInputEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteString(inputDefinition, 256)
	})
}

// ClearInputGroup removes every input definition from an input group.
func (c *Client) ClearInputGroup(groupID uint32) error {
	return c.send(protocol.OpClearInputGroup, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
	})
}

// SetInputGroupState enables or disables an input group.
func (c *Client) SetInputGroupState(groupID uint32, on bool) error {
	return c.send(protocol.OpSetInputGroupState, func(b *protocol.DataBuffer) {
		b.WriteUint32(groupID)
		b.WriteUint32(boolWord(on))
	})
}

// RequestReservedKey asks the server to reserve one of up to three key
// choices for the given event; the grant arrives as a RecvReservedKey.
func (c *Client) RequestReservedKey(eventID uint32, keyChoice1, keyChoice2, keyChoice3 string) error {
	return c.send(protocol.OpRequestReservedKey, func(b *protocol.DataBuffer) {
		b.WriteUint32(eventID)
		b.WriteString(keyChoice1, 30)
		b.WriteString(keyChoice2, 30)
		b.WriteString(keyChoice3, 30)
	})
}

// SubscribeToSystemEvent subscribes a client event id to a named system
// event stream ("4sec", "Frame", "Pause", ...).
func (c *Client) SubscribeToSystemEvent(eventID uint32, eventName string) error {
	return c.send(protocol.OpSubscribeToSystemEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(eventID)
		b.WriteString(eventName, 256)
	})
}

// UnsubscribeFromSystemEvent drops a system event subscription.
func (c *Client) UnsubscribeFromSystemEvent(eventID uint32) error {
	return c.send(protocol.OpUnsubscribeFromSystemEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(eventID)
	})
}

// ---- weather ----

// WeatherRequestInterpolatedObservation requests weather interpolated at a
// position; the reply is a RecvWeatherObservation.
func (c *Client) WeatherRequestInterpolatedObservation(requestID uint32, lat, lon, alt float32) error {
	return c.send(protocol.OpWeatherRequestInterpolatedObs, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteFloat32(lat)
		b.WriteFloat32(lon)
		b.WriteFloat32(alt)
	})
}

// WeatherRequestObservationAtStation requests the METAR of one station.
func (c *Client) WeatherRequestObservationAtStation(requestID uint32, icao string) error {
	return c.send(protocol.OpWeatherRequestObservationAtStn, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteString(icao, 16)
	})
}

// WeatherRequestObservationAtNearestStation requests the METAR of the
// station nearest to a position.
func (c *Client) WeatherRequestObservationAtNearestStation(requestID uint32, lat, lon float32) error {
	return c.send(protocol.OpWeatherRequestObservationNearest, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteFloat32(lat)
		b.WriteFloat32(lon)
	})
}

// WeatherCreateStation creates a client weather station.
func (c *Client) WeatherCreateStation(requestID uint32, icao, name string, lat, lon, alt float32) error {
	return c.send(protocol.OpWeatherCreateStation, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteString(icao, 16)
		b.WriteString(name, 256)
		b.WriteFloat32(lat)
		b.WriteFloat32(lon)
		b.WriteFloat32(alt)
	})
}

// WeatherRemoveStation removes a previously created weather station.
func (c *Client) WeatherRemoveStation(requestID uint32, icao string) error {
	return c.send(protocol.OpWeatherRemoveStation, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteString(icao, 16)
	})
}

// WeatherSetObservation injects a METAR, blended in over seconds.
func (c *Client) WeatherSetObservation(seconds uint32, metar string) error {
	return c.send(protocol.OpWeatherSetObservation, func(b *protocol.DataBuffer) {
		b.WriteUint32(seconds)
		b.WriteStringV(metar)
	})
}

// WeatherSetModeServer switches weather to server-driven mode.
func (c *Client) WeatherSetModeServer(port uint32, updateRate float32) error {
	return c.send(protocol.OpWeatherSetModeServer, func(b *protocol.DataBuffer) {
		b.WriteUint32(port)
		b.WriteFloat32(updateRate)
	})
}

// WeatherSetModeTheme switches weather to a named theme.
func (c *Client) WeatherSetModeTheme(themeName string) error {
	return c.send(protocol.OpWeatherSetModeTheme, func(b *protocol.DataBuffer) {
		b.WriteString(themeName, 256)
	})
}

// WeatherSetModeGlobal switches weather to global mode.
func (c *Client) WeatherSetModeGlobal() error {
	return c.send(protocol.OpWeatherSetModeGlobal, nil)
}

// WeatherSetModeCustom switches weather to user-defined mode.
func (c *Client) WeatherSetModeCustom() error {
	return c.send(protocol.OpWeatherSetModeCustom, nil)
}

// WeatherSetDynamicUpdateRate sets the dynamic weather change rate.
func (c *Client) WeatherSetDynamicUpdateRate(rate uint32) error {
	return c.send(protocol.OpWeatherSetDynamicUpdateRate, func(b *protocol.DataBuffer) {
		b.WriteUint32(rate)
	})
}

// WeatherRequestCloudState requests the cloud density grid covering a
// lat/lon/alt box; the reply is a RecvCloudState.
func (c *Client) WeatherRequestCloudState(requestID uint32, minLat, minLon, minAlt, maxLat, maxLon, maxAlt float32, flags uint32) error {
	return c.send(protocol.OpWeatherRequestCloudState, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteFloat32(minLat)
		b.WriteFloat32(minLon)
		b.WriteFloat32(minAlt)
		b.WriteFloat32(maxLat)
		b.WriteFloat32(maxLon)
		b.WriteFloat32(maxAlt)
		b.WriteUint32(flags)
	})
}

// ThermalProfile describes a thermal column for WeatherCreateThermal.
type ThermalProfile struct {
	Lat, Lon, Alt      float32
	Radius             float32
	Height             float32
	CoreRate           float32
	CoreTurbulence     float32
	SinkRate           float32
	SinkTurbulence     float32
	CoreSize           float32
	CoreTransitionSize float32
	SinkLayerSize      float32
	SinkTransitionSize float32
}

// WeatherCreateThermal creates a thermal; the assigned object id arrives as
// a RecvAssignedObjectID.
func (c *Client) WeatherCreateThermal(requestID uint32, t ThermalProfile) error {
	return c.send(protocol.OpWeatherCreateThermal, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteFloat32(t.Lat)
		b.WriteFloat32(t.Lon)
		b.WriteFloat32(t.Alt)
		b.WriteFloat32(t.Radius)
		b.WriteFloat32(t.Height)
		b.WriteFloat32(t.CoreRate)
		b.WriteFloat32(t.CoreTurbulence)
		b.WriteFloat32(t.SinkRate)
		b.WriteFloat32(t.SinkTurbulence)
		b.WriteFloat32(t.CoreSize)
		b.WriteFloat32(t.CoreTransitionSize)
		b.WriteFloat32(t.SinkLayerSize)
		b.WriteFloat32(t.SinkTransitionSize)
	})
}

// WeatherRemoveThermal removes a thermal by its assigned object id.
func (c *Client) WeatherRemoveThermal(objectID uint32) error {
	return c.send(protocol.OpWeatherRemoveThermal, func(b *protocol.DataBuffer) {
		b.WriteUint32(objectID)
	})
}

// ---- AI objects ----

// AICreateParkedATCAircraft creates an AI aircraft parked at an airport.
func (c *Client) AICreateParkedATCAircraft(containerTitle, tailNumber, airportICAO string, requestID uint32) error {
	return c.send(protocol.OpAICreateParkedATCAircraft, func(b *protocol.DataBuffer) {
		b.WriteString(containerTitle, 256)
		b.WriteString(tailNumber, 12)
		b.WriteString(airportICAO, 5)
		b.WriteUint32(requestID)
	})
}

// AICreateEnrouteATCAircraft creates an AI aircraft already flying a flight
// plan, positioned at flightPlanPosition (fractional leg index).
func (c *Client) AICreateEnrouteATCAircraft(containerTitle, tailNumber string, flightNumber int32, flightPlanPath string, flightPlanPosition float64, touchAndGo bool, requestID uint32) error {
	return c.send(protocol.OpAICreateEnrouteATCAircraft, func(b *protocol.DataBuffer) {
		b.WriteString(containerTitle, 256)
		b.WriteString(tailNumber, 12)
		b.WriteInt32(flightNumber)
		b.WriteString(flightPlanPath, 260)
		b.WriteFloat64(flightPlanPosition)
		b.WriteUint32(boolWord(touchAndGo))
		b.WriteUint32(requestID)
	})
}

// AICreateNonATCAircraft creates an AI aircraft outside ATC control.
func (c *Client) AICreateNonATCAircraft(containerTitle, tailNumber string, pos protocol.InitPosition, requestID uint32) error {
	return c.send(protocol.OpAICreateNonATCAircraft, func(b *protocol.DataBuffer) {
		b.WriteString(containerTitle, 256)
		b.WriteString(tailNumber, 12)
		pos.Write(b)
		b.WriteUint32(requestID)
	})
}

// AICreateSimulatedObject creates a non-aircraft simulated object.
func (c *Client) AICreateSimulatedObject(containerTitle string, pos protocol.InitPosition, requestID uint32) error {
	return c.send(protocol.OpAICreateSimulatedObject, func(b *protocol.DataBuffer) {
		b.WriteString(containerTitle, 256)
		pos.Write(b)
		b.WriteUint32(requestID)
	})
}

// AIReleaseControl returns an AI object to simulator control.
func (c *Client) AIReleaseControl(objectID, requestID uint32) error {
	return c.send(protocol.OpAIReleaseControl, func(b *protocol.DataBuffer) {
		b.WriteUint32(objectID)
		b.WriteUint32(requestID)
	})
}

// AIRemoveObject destroys a server-assigned AI object.
func (c *Client) AIRemoveObject(objectID, requestID uint32) error {
	return c.send(protocol.OpAIRemoveObject, func(b *protocol.DataBuffer) {
		b.WriteUint32(objectID)
		b.WriteUint32(requestID)
	})
}

// AISetAircraftFlightPlan assigns a flight plan file to an AI aircraft.
func (c *Client) AISetAircraftFlightPlan(objectID uint32, flightPlanPath string, requestID uint32) error {
	return c.send(protocol.OpAISetAircraftFlightPlan, func(b *protocol.DataBuffer) {
		b.WriteUint32(objectID)
		b.WriteString(flightPlanPath, 260)
		b.WriteUint32(requestID)
	})
}

// ---- missions, camera, menus ----

// ExecuteMissionAction triggers a mission action by its 16-byte GUID.
func (c *Client) ExecuteMissionAction(actionGUID []byte) error {
	if len(actionGUID) != protocol.GUIDSize {
		return fmt.Errorf("execute mission action: %w: got %d bytes", ErrInvalidGUID, len(actionGUID))
	}
	return c.send(protocol.OpExecuteMissionAction, func(b *protocol.DataBuffer) {
		b.WriteBytes(actionGUID)
	})
}

// CompleteCustomMissionAction reports a custom mission action finished.
func (c *Client) CompleteCustomMissionAction(instanceGUID []byte) error {
	if len(instanceGUID) != protocol.GUIDSize {
		return fmt.Errorf("complete custom mission action: %w: got %d bytes", ErrInvalidGUID, len(instanceGUID))
	}
	return c.send(protocol.OpCompleteCustomMissionAction, func(b *protocol.DataBuffer) {
		b.WriteBytes(instanceGUID)
	})
}

// CameraSetRelative6DOF offsets the camera relative to the user vehicle.
func (c *Client) CameraSetRelative6DOF(deltaX, deltaY, deltaZ, pitch, bank, heading float32) error {
	return c.send(protocol.OpCameraSetRelative6DOF, func(b *protocol.DataBuffer) {
		b.WriteFloat32(deltaX)
		b.WriteFloat32(deltaY)
		b.WriteFloat32(deltaZ)
		b.WriteFloat32(pitch)
		b.WriteFloat32(bank)
		b.WriteFloat32(heading)
	})
}

// MenuAddItem adds a top-level add-on menu entry firing menuEventID.
func (c *Client) MenuAddItem(text string, menuEventID, data uint32) error {
	return c.send(protocol.OpMenuAddItem, func(b *protocol.DataBuffer) {
		b.WriteString(text, 256)
		b.WriteUint32(menuEventID)
		b.WriteUint32(data)
	})
}

// MenuDeleteItem removes a top-level menu entry.
func (c *Client) MenuDeleteItem(menuEventID uint32) error {
	return c.send(protocol.OpMenuDeleteItem, func(b *protocol.DataBuffer) {
		b.WriteUint32(menuEventID)
	})
}

// MenuAddSubItem adds a sub-entry under an existing menu entry.
func (c *Client) MenuAddSubItem(menuEventID uint32, text string, subMenuEventID, data uint32) error {
	return c.send(protocol.OpMenuAddSubItem, func(b *protocol.DataBuffer) {
		b.WriteUint32(menuEventID)
		b.WriteString(text, 256)
		b.WriteUint32(subMenuEventID)
		b.WriteUint32(data)
	})
}

// MenuDeleteSubItem removes a menu sub-entry.
func (c *Client) MenuDeleteSubItem(menuEventID, subMenuEventID uint32) error {
	return c.send(protocol.OpMenuDeleteSubItem, func(b *protocol.DataBuffer) {
		b.WriteUint32(menuEventID)
		b.WriteUint32(subMenuEventID)
	})
}

// ---- system state ----

// RequestSystemState requests a named system state value ("Sim",
// "FlightLoaded", ...); the reply is a RecvSystemState.
func (c *Client) RequestSystemState(requestID uint32, state string) error {
	return c.send(protocol.OpRequestSystemState, func(b *protocol.DataBuffer) {
		b.WriteUint32(requestID)
		b.WriteString(state, 256)
	})
}

// SetSystemState sets a named system state with integer, float and string
// parameters; unused parameters are zero.
func (c *Client) SetSystemState(state string, intParam uint32, floatParam float32, stringParam string) error {
	return c.send(protocol.OpSetSystemState, func(b *protocol.DataBuffer) {
		b.WriteString(state, 256)
		b.WriteUint32(intParam)
		b.WriteFloat32(floatParam)
		b.WriteString(stringParam, 256)
	})
}

// ---- client data ----

// MapClientDataNameToID binds a named client data area to a numeric id.
func (c *Client) MapClientDataNameToID(clientDataName string, clientDataID uint32) error {
	return c.send(protocol.OpMapClientDataNameToID, func(b *protocol.DataBuffer) {
		b.WriteString(clientDataName, 256)
		b.WriteUint32(clientDataID)
	})
}

// CreateClientData allocates a client data area of the given byte size.
func (c *Client) CreateClientData(clientDataID, size uint32, readOnly bool) error {
	return c.send(protocol.OpCreateClientData, func(b *protocol.DataBuffer) {
		b.WriteUint32(clientDataID)
		b.WriteUint32(size)
		b.WriteUint32(boolWord(readOnly))
	})
}

// AddToClientDataDefinition appends an (offset, size) entry to a client
// data definition. Sessions newer than SP1 carry one extra reserved field.
func (c *Client) AddToClientDataDefinition(defineID, offset, size uint32) error {
	return c.send(protocol.OpAddToClientDataDefinition, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
		b.WriteUint32(offset)
		b.WriteUint32(size)
		if c.version > protocol.VersionSP1 {
			b.WriteUint32(0)
		}
	})
}

// AddToClientDataDefinitionEx is the typed form carrying an explicit element
// type, change epsilon and datum id. Requires SP1 or newer.
func (c *Client) AddToClientDataDefinitionEx(defineID, offset uint32, sizeOrType uint32, epsilon float32, datumID uint32) error {
	if err := c.requireVersion(protocol.VersionSP1, "add to client data definition (typed)"); err != nil {
		return err
	}
	return c.send(protocol.OpAddToClientDataDefinition, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
		b.WriteUint32(offset)
		b.WriteUint32(sizeOrType)
		b.WriteFloat32(epsilon)
		b.WriteUint32(datumID)
		if c.version > protocol.VersionSP1 {
			b.WriteUint32(0)
		}
	})
}

// ClearClientDataDefinition discards a client data definition.
func (c *Client) ClearClientDataDefinition(defineID uint32) error {
	return c.send(protocol.OpClearClientDataDefinition, func(b *protocol.DataBuffer) {
		b.WriteUint32(defineID)
	})
}

// RequestClientData requests one client data snapshot.
func (c *Client) RequestClientData(clientDataID, requestID, defineID uint32) error {
	return c.send(protocol.OpRequestClientData, func(b *protocol.DataBuffer) {
		b.WriteUint32(clientDataID)
		b.WriteUint32(requestID)
		b.WriteUint32(defineID)
	})
}

// RequestClientDataEx is the repeating form with full period control.
// Requires SP1 or newer.
func (c *Client) RequestClientDataEx(clientDataID, requestID, defineID uint32, period protocol.ClientDataPeriod, flags, origin, interval, limit uint32) error {
	if err := c.requireVersion(protocol.VersionSP1, "request client data (periodic)"); err != nil {
		return err
	}
	if !period.Valid() {
		return fmt.Errorf("request client data (periodic): %w: period %d", ErrInvalidEnum, period)
	}
	return c.send(protocol.OpRequestClientData, func(b *protocol.DataBuffer) {
		b.WriteUint32(clientDataID)
		b.WriteUint32(requestID)
		b.WriteUint32(defineID)
		b.WriteUint32(uint32(period))
		b.WriteUint32(flags)
		b.WriteUint32(origin)
		b.WriteUint32(interval)
		b.WriteUint32(limit)
	})
}

// SetClientData writes definition-shaped bytes into a client data area.
func (c *Client) SetClientData(clientDataID, defineID, flags uint32, data []byte) error {
	return c.send(protocol.OpSetClientData, func(b *protocol.DataBuffer) {
		b.WriteUint32(clientDataID)
		b.WriteUint32(defineID)
		b.WriteUint32(flags)
		b.WriteUint32(0)
		b.WriteUint32(uint32(len(data)))
		b.WriteBytes(data)
	})
}

// ---- flights and text ----

// FlightLoad loads a saved flight file.
func (c *Client) FlightLoad(path string) error {
	return c.send(protocol.OpFlightLoad, func(b *protocol.DataBuffer) {
		b.WriteString(path, 260)
	})
}

// FlightSave saves the current flight. The separate title field requires
// SP1 or newer; on an RTM session a non-empty title is rejected locally.
func (c *Client) FlightSave(path, title, description string, flags uint32) error {
	if c.version < protocol.VersionSP1 && title != "" {
		return fmt.Errorf("flight save with title: %w (have %s, need %s)", ErrProtocolTooOld, c.version, protocol.VersionSP1)
	}
	return c.send(protocol.OpFlightSave, func(b *protocol.DataBuffer) {
		b.WriteString(path, 260)
		if c.version >= protocol.VersionSP1 {
			b.WriteString(title, 260)
		}
		b.WriteString(description, 2048)
		b.WriteUint32(flags)
	})
}

// FlightPlanLoad loads a flight plan file and activates it.
func (c *Client) FlightPlanLoad(path string) error {
	return c.send(protocol.OpFlightPlanLoad, func(b *protocol.DataBuffer) {
		b.WriteString(path, 260)
	})
}

// Text displays free-form text or a menu. Requires SP1 or newer. The text
// payload is length-prefixed and null-terminated; menus separate their
// entries with null bytes inside the payload.
func (c *Client) Text(typ protocol.TextType, durationSeconds float32, eventID uint32, text string) error {
	if err := c.requireVersion(protocol.VersionSP1, "text display"); err != nil {
		return err
	}
	return c.send(protocol.OpText, func(b *protocol.DataBuffer) {
		b.WriteUint32(uint32(typ))
		b.WriteFloat32(durationSeconds)
		b.WriteUint32(eventID)
		b.WriteUint32(uint32(len(text) + 1))
		b.WriteStringV(text)
	})
}

// ---- facilities ----

// SubscribeToFacilities streams additions to one facility database.
// Requires SP1 or newer.
func (c *Client) SubscribeToFacilities(typ protocol.FacilityListType, requestID uint32) error {
	if err := c.requireVersion(protocol.VersionSP1, "subscribe to facilities"); err != nil {
		return err
	}
	if !typ.Valid() {
		return fmt.Errorf("subscribe to facilities: %w: list type %d", ErrInvalidEnum, typ)
	}
	return c.send(protocol.OpSubscribeToFacilities, func(b *protocol.DataBuffer) {
		b.WriteUint32(uint32(typ))
		b.WriteUint32(requestID)
	})
}

// UnsubscribeToFacilities stops a facility subscription. Requires SP1 or
// newer.
func (c *Client) UnsubscribeToFacilities(typ protocol.FacilityListType) error {
	if err := c.requireVersion(protocol.VersionSP1, "unsubscribe to facilities"); err != nil {
		return err
	}
	if !typ.Valid() {
		return fmt.Errorf("unsubscribe to facilities: %w: list type %d", ErrInvalidEnum, typ)
	}
	return c.send(protocol.OpUnsubscribeToFacilities, func(b *protocol.DataBuffer) {
		b.WriteUint32(uint32(typ))
	})
}

// RequestFacilitiesList pages through everything currently cached in one
// facility database. Requires SP1 or newer.
func (c *Client) RequestFacilitiesList(typ protocol.FacilityListType, requestID uint32) error {
	if err := c.requireVersion(protocol.VersionSP1, "request facilities list"); err != nil {
		return err
	}
	if !typ.Valid() {
		return fmt.Errorf("request facilities list: %w: list type %d", ErrInvalidEnum, typ)
	}
	return c.send(protocol.OpRequestFacilitiesList, func(b *protocol.DataBuffer) {
		b.WriteUint32(uint32(typ))
		b.WriteUint32(requestID)
	})
}
