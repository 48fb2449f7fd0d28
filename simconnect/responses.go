package simconnect

import (
	"fmt"

	"github.com/simlink-project/simlink/protocol"
)

// UnknownGroup is carried in RecvEvent.GroupID when the event belongs to no
// notification group.
const UnknownGroup uint32 = 0xFFFFFFFF

// Packet holds the header fields common to every decoded response record.
type Packet struct {
	Size    uint32
	Version uint32
	ID      protocol.RecvID
}

func (p *Packet) packet() *Packet { return p }

// Recv is the closed set of decoded response records. Every inbound frame
// decodes to exactly one Recv; unknown response kinds decode to RecvUnknown.
type Recv interface {
	packet() *Packet
}

// RecvOpen acknowledges the handshake and reports server identity.
type RecvOpen struct {
	Packet
	ApplicationName string
	AppVerMajor     uint32
	AppVerMinor     uint32
	AppBuildMajor   uint32
	AppBuildMinor   uint32
	SimVerMajor     uint32
	SimVerMinor     uint32
	SimBuildMajor   uint32
	SimBuildMinor   uint32
}

// RecvQuit announces that the server is shutting down the session.
type RecvQuit struct {
	Packet
}

// RecvException reports an asynchronous semantic failure, correlated to the
// offending command through SendID.
type RecvException struct {
	Packet
	ExceptionID uint32
	SendID      uint32
	Index       uint32
}

// RecvEvent is a fired event: client, system, or menu.
type RecvEvent struct {
	Packet
	GroupID uint32
	EventID uint32
	Data    uint32
}

// RecvEventObjectAddRemove reports an object entering or leaving the
// simulation; Data carries the object id.
type RecvEventObjectAddRemove struct {
	RecvEvent
	ObjType protocol.SimObjectType
}

// RecvEventFilename is a system event carrying a file path (flight loaded,
// plan activated, ...).
type RecvEventFilename struct {
	RecvEvent
	FileName string
	Flags    uint32
}

// RecvEventFrame is the per-visual-frame system event.
type RecvEventFrame struct {
	RecvEvent
	FrameRate float32
	SimSpeed  float32
}

// RecvEventWeatherMode reports a weather mode change in Data.
type RecvEventWeatherMode struct {
	RecvEvent
}

// RecvEventMultiplayerServerStarted signals the host's session went live.
type RecvEventMultiplayerServerStarted struct {
	RecvEvent
}

// RecvEventMultiplayerClientStarted signals this client joined a session.
type RecvEventMultiplayerClientStarted struct {
	RecvEvent
}

// RecvEventMultiplayerSessionEnded signals the multiplayer session ended.
type RecvEventMultiplayerSessionEnded struct {
	RecvEvent
}

// RaceResult is the per-racer payload of race lifecycle events.
type RaceResult struct {
	NumberOfRacers uint32
	MissionGUID    [16]byte
	PlayerName     string
	SessionType    string
	Aircraft       string
	PlayerRole     string
	TotalTime      float64
	PenaltyTime    float64
	Disqualified   bool
}

// RecvEventRaceEnd reports one racer's final result.
type RecvEventRaceEnd struct {
	RecvEvent
	RacerNumber uint32
	Result      RaceResult
}

// RecvEventRaceLap reports one racer's lap result.
type RecvEventRaceLap struct {
	RecvEvent
	LapIndex uint32
	Result   RaceResult
}

// RecvSimObjectData is one telemetry row shaped by a data definition. Field
// values are consumed through the forward-only cursor accessors; ResetData
// rewinds the cursor so the row can be re-read from offset zero.
type RecvSimObjectData struct {
	Packet
	RequestID   uint32
	ObjectID    uint32
	DefineID    uint32
	Flags       uint32
	EntryNumber uint32
	OutOf       uint32
	DefineCount uint32

	data *protocol.DataBuffer
}

// ResetData rewinds the field cursor to the start of the data region.
func (r *RecvSimObjectData) ResetData() { r.data.Reset() }

// Data returns the row's field region for cursor or schema-driven access.
func (r *RecvSimObjectData) Data() *protocol.DataBuffer { return r.data }

// GetInt32 reads the next 4-byte integer field.
func (r *RecvSimObjectData) GetInt32() int32 { return r.data.ReadInt32() }

// GetInt64 reads the next 8-byte integer field.
func (r *RecvSimObjectData) GetInt64() int64 { return r.data.ReadInt64() }

// GetFloat32 reads the next 4-byte float field.
func (r *RecvSimObjectData) GetFloat32() float32 { return r.data.ReadFloat32() }

// GetFloat64 reads the next 8-byte float field.
func (r *RecvSimObjectData) GetFloat64() float64 { return r.data.ReadFloat64() }

// GetString reads the next fixed-width string field.
func (r *RecvSimObjectData) GetString(width int) string { return r.data.ReadString(width) }

// GetStringV reads the next null-terminated string field.
func (r *RecvSimObjectData) GetStringV() string { return r.data.ReadStringV() }

// GetLatLonAlt reads the next geodetic position field.
func (r *RecvSimObjectData) GetLatLonAlt() protocol.LatLonAlt {
	var v protocol.LatLonAlt
	v.Read(r.data)
	return v
}

// GetXYZ reads the next 3-D point field.
func (r *RecvSimObjectData) GetXYZ() protocol.XYZ {
	var v protocol.XYZ
	v.Read(r.data)
	return v
}

// GetWaypoint reads the next waypoint field.
func (r *RecvSimObjectData) GetWaypoint() protocol.Waypoint {
	var v protocol.Waypoint
	v.Read(r.data)
	return v
}

// GetInitPosition reads the next initial-placement field.
func (r *RecvSimObjectData) GetInitPosition() protocol.InitPosition {
	var v protocol.InitPosition
	v.Read(r.data)
	return v
}

// GetMarkerState reads the next marker state field.
func (r *RecvSimObjectData) GetMarkerState() protocol.MarkerState {
	var v protocol.MarkerState
	v.Read(r.data)
	return v
}

// RecvSimObjectDataByType is a telemetry row answering an object-type query.
type RecvSimObjectDataByType struct {
	RecvSimObjectData
}

// RecvClientData is a client-data row; same shape as a telemetry row.
type RecvClientData struct {
	RecvSimObjectData
}

// RecvWeatherObservation carries a METAR string.
type RecvWeatherObservation struct {
	Packet
	RequestID uint32
	Metar     string
}

// RecvCloudState carries the requested cloud density grid.
type RecvCloudState struct {
	Packet
	RequestID uint32
	ArraySize uint32
	Data      []byte
}

// RecvAssignedObjectID grants the server-assigned id for a created object.
type RecvAssignedObjectID struct {
	Packet
	RequestID uint32
	ObjectID  uint32
}

// RecvReservedKey grants one of the requested key choices.
type RecvReservedKey struct {
	Packet
	ChoiceReserved string
	ReservedKey    string
}

// RecvCustomAction asks the client to execute a custom mission action.
type RecvCustomAction struct {
	Packet
	InstanceID        [16]byte
	WaitForCompletion bool
	PayloadString     string
}

// RecvSystemState answers a system state request.
type RecvSystemState struct {
	Packet
	RequestID   uint32
	DataInteger uint32
	DataFloat   float32
	DataString  string
}

// RecvUnknown carries the raw payload of a response kind this client does
// not model. Receiving one is never an error.
type RecvUnknown struct {
	Packet
	Raw []byte
}

// decoders is the closed response-id to constructor table. Each constructor
// receives the frame with the cursor positioned just past the header.
var decoders = map[protocol.RecvID]func(p Packet, d *protocol.DataBuffer) Recv{
	protocol.RecvIDOpen:                       decodeOpen,
	protocol.RecvIDQuit:                       func(p Packet, d *protocol.DataBuffer) Recv { return &RecvQuit{Packet: p} },
	protocol.RecvIDException:                  decodeException,
	protocol.RecvIDEvent:                      decodeEvent,
	protocol.RecvIDEventObjectAddRemove:       decodeEventObjectAddRemove,
	protocol.RecvIDEventFilename:              decodeEventFilename,
	protocol.RecvIDEventFrame:                 decodeEventFrame,
	protocol.RecvIDEventWeatherMode:           decodeEventWeatherMode,
	protocol.RecvIDSimObjectData:              decodeSimObjectData,
	protocol.RecvIDSimObjectDataByType:        decodeSimObjectDataByType,
	protocol.RecvIDClientData:                 decodeClientData,
	protocol.RecvIDWeatherObservation:         decodeWeatherObservation,
	protocol.RecvIDCloudState:                 decodeCloudState,
	protocol.RecvIDAssignedObjectID:           decodeAssignedObjectID,
	protocol.RecvIDReservedKey:                decodeReservedKey,
	protocol.RecvIDCustomAction:               decodeCustomAction,
	protocol.RecvIDSystemState:                decodeSystemState,
	protocol.RecvIDAirportList:                decodeAirportList,
	protocol.RecvIDWaypointList:               decodeWaypointList,
	protocol.RecvIDNDBList:                    decodeNDBList,
	protocol.RecvIDVORList:                    decodeVORList,
	protocol.RecvIDEventMultiplayerServer:     decodeEventMultiplayerServer,
	protocol.RecvIDEventMultiplayerClient:     decodeEventMultiplayerClient,
	protocol.RecvIDEventMultiplayerSessionEnd: decodeEventMultiplayerSessionEnd,
	protocol.RecvIDEventRaceEnd:               decodeEventRaceEnd,
	protocol.RecvIDEventRaceLap:               decodeEventRaceLap,
}

// decode maps a raw frame to its decoded record. The response kind sits in
// the opcode field at byte offset 8.
func decode(frame *protocol.DataBuffer) (Recv, error) {
	h, err := protocol.ParseHeader(frame.Bytes())
	if err != nil {
		return nil, err
	}
	frame.Seek(protocol.HeaderSize)

	p := Packet{Size: h.Size, Version: h.Version, ID: protocol.RecvID(h.Opcode)}
	ctor, ok := decoders[p.ID]
	if !ok {
		return &RecvUnknown{Packet: p, Raw: frame.ReadBytes(frame.Remaining())}, nil
	}
	rec := ctor(p, frame)
	if err := frame.Err(); err != nil {
		return nil, fmt.Errorf("decode response id %d: %w", uint32(p.ID), err)
	}
	return rec, nil
}

func decodeOpen(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvOpen{
		Packet:          p,
		ApplicationName: d.ReadString(256),
		AppVerMajor:     d.ReadUint32(),
		AppVerMinor:     d.ReadUint32(),
		AppBuildMajor:   d.ReadUint32(),
		AppBuildMinor:   d.ReadUint32(),
		SimVerMajor:     d.ReadUint32(),
		SimVerMinor:     d.ReadUint32(),
		SimBuildMajor:   d.ReadUint32(),
		SimBuildMinor:   d.ReadUint32(),
	}
}

func decodeException(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvException{
		Packet:      p,
		ExceptionID: d.ReadUint32(),
		SendID:      d.ReadUint32(),
		Index:       d.ReadUint32(),
	}
}

func readEvent(p Packet, d *protocol.DataBuffer) RecvEvent {
	return RecvEvent{
		Packet:  p,
		GroupID: d.ReadUint32(),
		EventID: d.ReadUint32(),
		Data:    d.ReadUint32(),
	}
}

func decodeEvent(p Packet, d *protocol.DataBuffer) Recv {
	ev := readEvent(p, d)
	return &ev
}

func decodeEventObjectAddRemove(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventObjectAddRemove{
		RecvEvent: readEvent(p, d),
		ObjType:   protocol.SimObjectType(d.ReadUint32()),
	}
}

func decodeEventFilename(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventFilename{
		RecvEvent: readEvent(p, d),
		FileName:  d.ReadString(260),
		Flags:     d.ReadUint32(),
	}
}

func decodeEventFrame(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventFrame{
		RecvEvent: readEvent(p, d),
		FrameRate: d.ReadFloat32(),
		SimSpeed:  d.ReadFloat32(),
	}
}

func decodeEventWeatherMode(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventWeatherMode{RecvEvent: readEvent(p, d)}
}

func decodeEventMultiplayerServer(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventMultiplayerServerStarted{RecvEvent: readEvent(p, d)}
}

func decodeEventMultiplayerClient(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventMultiplayerClientStarted{RecvEvent: readEvent(p, d)}
}

func decodeEventMultiplayerSessionEnd(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventMultiplayerSessionEnded{RecvEvent: readEvent(p, d)}
}

func readRaceResult(d *protocol.DataBuffer) RaceResult {
	var r RaceResult
	r.NumberOfRacers = d.ReadUint32()
	copy(r.MissionGUID[:], d.ReadBytes(16))
	r.PlayerName = d.ReadString(260)
	r.SessionType = d.ReadString(260)
	r.Aircraft = d.ReadString(260)
	r.PlayerRole = d.ReadString(260)
	r.TotalTime = d.ReadFloat64()
	r.PenaltyTime = d.ReadFloat64()
	r.Disqualified = d.ReadUint32() != 0
	return r
}

func decodeEventRaceEnd(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventRaceEnd{
		RecvEvent:   readEvent(p, d),
		RacerNumber: d.ReadUint32(),
		Result:      readRaceResult(d),
	}
}

func decodeEventRaceLap(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvEventRaceLap{
		RecvEvent: readEvent(p, d),
		LapIndex:  d.ReadUint32(),
		Result:    readRaceResult(d),
	}
}

// readSimObjectData copies the field region out of the frame so the record
// stays valid after the receive scratch is reused.
func readSimObjectData(p Packet, d *protocol.DataBuffer) RecvSimObjectData {
	r := RecvSimObjectData{
		Packet:      p,
		RequestID:   d.ReadUint32(),
		ObjectID:    d.ReadUint32(),
		DefineID:    d.ReadUint32(),
		Flags:       d.ReadUint32(),
		EntryNumber: d.ReadUint32(),
		OutOf:       d.ReadUint32(),
		DefineCount: d.ReadUint32(),
	}
	r.data = protocol.Wrap(d.ReadBytes(d.Remaining()))
	return r
}

func decodeSimObjectData(p Packet, d *protocol.DataBuffer) Recv {
	r := readSimObjectData(p, d)
	return &r
}

func decodeSimObjectDataByType(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvSimObjectDataByType{RecvSimObjectData: readSimObjectData(p, d)}
}

func decodeClientData(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvClientData{RecvSimObjectData: readSimObjectData(p, d)}
}

func decodeWeatherObservation(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvWeatherObservation{
		Packet:    p,
		RequestID: d.ReadUint32(),
		Metar:     d.ReadStringV(),
	}
}

func decodeCloudState(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvCloudState{
		Packet:    p,
		RequestID: d.ReadUint32(),
		ArraySize: d.ReadUint32(),
	}
	r.Data = d.ReadBytes(int(r.ArraySize))
	return r
}

func decodeAssignedObjectID(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvAssignedObjectID{
		Packet:    p,
		RequestID: d.ReadUint32(),
		ObjectID:  d.ReadUint32(),
	}
}

func decodeReservedKey(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvReservedKey{
		Packet:         p,
		ChoiceReserved: d.ReadString(30),
		ReservedKey:    d.ReadString(50),
	}
}

func decodeCustomAction(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvCustomAction{Packet: p}
	copy(r.InstanceID[:], d.ReadBytes(16))
	r.WaitForCompletion = d.ReadUint32() != 0
	r.PayloadString = d.ReadStringV()
	return r
}

func decodeSystemState(p Packet, d *protocol.DataBuffer) Recv {
	return &RecvSystemState{
		Packet:      p,
		RequestID:   d.ReadUint32(),
		DataInteger: d.ReadUint32(),
		DataFloat:   d.ReadFloat32(),
		DataString:  d.ReadString(260),
	}
}
