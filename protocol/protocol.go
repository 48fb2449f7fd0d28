// Package protocol implements the wire-level layer of the simulator control
// protocol: frame headers, opcode and response-id spaces, the field-offset
// data buffer, and the fixed-layout structured value codec. All multi-byte
// fields are little-endian; strings are either fixed-width zero-padded or
// null-terminated variable-width depending on the field.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of the frame header preceding every payload:
// total size, protocol version, opcode, send-sequence id (4 bytes each).
const HeaderSize = 16

// RequestFlag is OR-ed into the opcode of every outbound request frame.
// Response frames carry a bare response id in the same field.
const RequestFlag uint32 = 0xF0000000

// MaxFrameSize is the maximum total frame size accepted on receive.
const MaxFrameSize = 65536

// ObjectIDUser is the sentinel object id addressing the user vehicle.
const ObjectIDUser uint32 = 0

// GUIDSize is the exact byte length of GUID command arguments.
const GUIDSize = 16

// Header is the fixed 16-byte header carried by every frame.
type Header struct {
	Size    uint32 // total frame length, header included
	Version uint32 // negotiated protocol version
	Opcode  uint32 // request opcode (with RequestFlag) or response id
	SendID  uint32 // send-sequence id of the request, echoed by responses
}

// PutHeader writes h into the first HeaderSize bytes of b.
func PutHeader(b []byte, h Header) {
	binary.LittleEndian.PutUint32(b[0:4], h.Size)
	binary.LittleEndian.PutUint32(b[4:8], h.Version)
	binary.LittleEndian.PutUint32(b[8:12], h.Opcode)
	binary.LittleEndian.PutUint32(b[12:16], h.SendID)
}

// ParseHeader decodes the leading frame header from b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("frame too short for header: %d bytes", len(b))
	}
	return Header{
		Size:    binary.LittleEndian.Uint32(b[0:4]),
		Version: binary.LittleEndian.Uint32(b[4:8]),
		Opcode:  binary.LittleEndian.Uint32(b[8:12]),
		SendID:  binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}

// Version identifies one of the supported negotiated protocol versions,
// ordered oldest to newest.
type Version uint32

const (
	VersionRTM Version = 0x2 // original release
	VersionSP1 Version = 0x3 // service pack 1
	VersionSP2 Version = 0x4 // service pack 2 / expansion
)

// Valid reports whether v is one of the supported protocol versions.
func (v Version) Valid() bool {
	switch v {
	case VersionRTM, VersionSP1, VersionSP2:
		return true
	}
	return false
}

func (v Version) String() string {
	switch v {
	case VersionRTM:
		return "rtm"
	case VersionSP1:
		return "sp1"
	case VersionSP2:
		return "sp2"
	}
	return fmt.Sprintf("version(0x%x)", uint32(v))
}

// Server build numbers announced during the handshake, per version.
const (
	buildRTM uint32 = 60905
	buildSP1 uint32 = 61355
	buildSP2 uint32 = 61259
)

// BuildNumbers returns the four version/build integers the handshake frame
// carries for this protocol version: major, minor, build major, build minor.
func (v Version) BuildNumbers() (major, minor, buildMajor, buildMinor uint32) {
	switch v {
	case VersionRTM:
		return 0, 0, buildRTM, 0
	case VersionSP1:
		return 10, 0, buildSP1, 0
	case VersionSP2:
		return 10, 0, buildSP2, 0
	}
	return 0, 0, 0, 0
}

// Opcode identifies an outbound command kind.
type Opcode uint32

const (
	OpOpen                             Opcode = 0x01
	OpMapClientEventToSimEvent         Opcode = 0x04
	OpTransmitClientEvent              Opcode = 0x05
	OpSetSystemEventState              Opcode = 0x06
	OpAddClientEventToNotificationGrp  Opcode = 0x07
	OpRemoveClientEvent                Opcode = 0x08
	OpSetNotificationGroupPriority     Opcode = 0x09
	OpClearNotificationGroup           Opcode = 0x0A
	OpRequestNotificationGroup         Opcode = 0x0B
	OpAddToDataDefinition              Opcode = 0x0C
	OpClearDataDefinition              Opcode = 0x0D
	OpRequestDataOnSimObject           Opcode = 0x0E
	OpRequestDataOnSimObjectType       Opcode = 0x0F
	OpSetDataOnSimObject               Opcode = 0x10
	OpMapInputEventToClientEvent       Opcode = 0x11
	OpSetInputGroupPriority            Opcode = 0x12
	OpRemoveInputEvent                 Opcode = 0x13
	OpClearInputGroup                  Opcode = 0x14
	OpSetInputGroupState               Opcode = 0x15
	OpRequestReservedKey               Opcode = 0x16
	OpSubscribeToSystemEvent           Opcode = 0x17
	OpUnsubscribeFromSystemEvent       Opcode = 0x18
	OpWeatherRequestInterpolatedObs    Opcode = 0x19
	OpWeatherRequestObservationAtStn   Opcode = 0x1A
	OpWeatherRequestObservationNearest Opcode = 0x1B
	OpWeatherCreateStation             Opcode = 0x1C
	OpWeatherRemoveStation             Opcode = 0x1D
	OpWeatherSetObservation            Opcode = 0x1E
	OpWeatherSetModeServer             Opcode = 0x1F
	OpWeatherSetModeTheme              Opcode = 0x20
	OpWeatherSetModeGlobal             Opcode = 0x21
	OpWeatherSetModeCustom             Opcode = 0x22
	OpWeatherSetDynamicUpdateRate      Opcode = 0x23
	OpWeatherRequestCloudState         Opcode = 0x24
	OpWeatherCreateThermal             Opcode = 0x25
	OpWeatherRemoveThermal             Opcode = 0x26
	OpAICreateParkedATCAircraft        Opcode = 0x27
	OpAICreateEnrouteATCAircraft       Opcode = 0x28
	OpAICreateNonATCAircraft           Opcode = 0x29
	OpAICreateSimulatedObject          Opcode = 0x2A
	OpAIReleaseControl                 Opcode = 0x2B
	OpAIRemoveObject                   Opcode = 0x2C
	OpAISetAircraftFlightPlan          Opcode = 0x2D
	OpExecuteMissionAction             Opcode = 0x2E
	OpCompleteCustomMissionAction      Opcode = 0x2F
	OpCameraSetRelative6DOF            Opcode = 0x30
	OpMenuAddItem                      Opcode = 0x31
	OpMenuDeleteItem                   Opcode = 0x32
	OpMenuAddSubItem                   Opcode = 0x33
	OpMenuDeleteSubItem                Opcode = 0x34
	OpRequestSystemState               Opcode = 0x35
	OpSetSystemState                   Opcode = 0x36
	OpMapClientDataNameToID            Opcode = 0x37
	OpCreateClientData                 Opcode = 0x38
	OpAddToClientDataDefinition        Opcode = 0x39
	OpClearClientDataDefinition        Opcode = 0x3A
	OpRequestClientData                Opcode = 0x3B
	OpSetClientData                    Opcode = 0x3C
	OpFlightLoad                       Opcode = 0x3D
	OpFlightSave                       Opcode = 0x3E
	OpFlightPlanLoad                   Opcode = 0x3F
	OpText                             Opcode = 0x40
	OpSubscribeToFacilities            Opcode = 0x41
	OpUnsubscribeToFacilities          Opcode = 0x42
	OpRequestFacilitiesList            Opcode = 0x43
)

// RecvID identifies an inbound response kind.
type RecvID uint32

const (
	RecvIDNull                       RecvID = 0
	RecvIDException                  RecvID = 1
	RecvIDOpen                       RecvID = 2
	RecvIDQuit                       RecvID = 3
	RecvIDEvent                      RecvID = 4
	RecvIDEventObjectAddRemove       RecvID = 5
	RecvIDEventFilename              RecvID = 6
	RecvIDEventFrame                 RecvID = 7
	RecvIDSimObjectData              RecvID = 8
	RecvIDSimObjectDataByType        RecvID = 9
	RecvIDWeatherObservation         RecvID = 10
	RecvIDCloudState                 RecvID = 11
	RecvIDAssignedObjectID           RecvID = 12
	RecvIDReservedKey                RecvID = 13
	RecvIDCustomAction               RecvID = 14
	RecvIDSystemState                RecvID = 15
	RecvIDClientData                 RecvID = 16
	RecvIDEventWeatherMode           RecvID = 17
	RecvIDAirportList                RecvID = 18
	RecvIDVORList                    RecvID = 19
	RecvIDNDBList                    RecvID = 20
	RecvIDWaypointList               RecvID = 21
	RecvIDEventMultiplayerServer     RecvID = 22
	RecvIDEventMultiplayerClient     RecvID = 23
	RecvIDEventMultiplayerSessionEnd RecvID = 24
	RecvIDEventRaceEnd               RecvID = 25
	RecvIDEventRaceLap               RecvID = 26
)

// DataType enumerates the element types usable in data definitions.
type DataType uint32

const (
	DataTypeInvalid      DataType = 0
	DataTypeInt32        DataType = 1
	DataTypeInt64        DataType = 2
	DataTypeFloat32      DataType = 3
	DataTypeFloat64      DataType = 4
	DataTypeString8      DataType = 5
	DataTypeString32     DataType = 6
	DataTypeString64     DataType = 7
	DataTypeString128    DataType = 8
	DataTypeString256    DataType = 9
	DataTypeString260    DataType = 10
	DataTypeStringV      DataType = 11
	DataTypeInitPosition DataType = 12
	DataTypeMarkerState  DataType = 13
	DataTypeWaypoint     DataType = 14
	DataTypeLatLonAlt    DataType = 15
	DataTypeXYZ          DataType = 16
)

// Size returns the fixed wire width of t in bytes, or 0 when the type is
// variable-width or invalid.
func (t DataType) Size() int {
	switch t {
	case DataTypeInt32, DataTypeFloat32:
		return 4
	case DataTypeInt64, DataTypeFloat64:
		return 8
	case DataTypeString8:
		return 8
	case DataTypeString32:
		return 32
	case DataTypeString64:
		return 64
	case DataTypeString128:
		return 128
	case DataTypeString256:
		return 256
	case DataTypeString260:
		return 260
	case DataTypeInitPosition:
		return InitPositionSize
	case DataTypeMarkerState:
		return MarkerStateSize
	case DataTypeWaypoint:
		return WaypointSize
	case DataTypeLatLonAlt:
		return LatLonAltSize
	case DataTypeXYZ:
		return XYZSize
	}
	return 0
}

// Period enumerates how often the server repeats a telemetry response.
type Period uint32

const (
	PeriodNever       Period = 0
	PeriodOnce        Period = 1
	PeriodVisualFrame Period = 2
	PeriodSimFrame    Period = 3
	PeriodSecond      Period = 4
)

// Valid reports whether p is a defined period value.
func (p Period) Valid() bool { return p <= PeriodSecond }

// ClientDataPeriod enumerates repeat rates for client-data requests.
type ClientDataPeriod uint32

const (
	ClientDataPeriodNever       ClientDataPeriod = 0
	ClientDataPeriodOnce        ClientDataPeriod = 1
	ClientDataPeriodVisualFrame ClientDataPeriod = 2
	ClientDataPeriodOnSet       ClientDataPeriod = 3
	ClientDataPeriodSecond      ClientDataPeriod = 4
)

// Valid reports whether p is a defined client-data period value.
func (p ClientDataPeriod) Valid() bool { return p <= ClientDataPeriodSecond }

// GroupPriority values for notification and input groups. No two groups may
// share a priority; the server enforces this.
const (
	GroupPriorityHighest         uint32 = 1
	GroupPriorityHighestMaskable uint32 = 10000000
	GroupPriorityStandard        uint32 = 1900000000
	GroupPriorityDefault         uint32 = 2000000000
	GroupPriorityLowest          uint32 = 4000000000
)

// SimObjectType selects the object class for by-type telemetry queries.
type SimObjectType uint32

const (
	SimObjectTypeUser       SimObjectType = 0
	SimObjectTypeAll        SimObjectType = 1
	SimObjectTypeAircraft   SimObjectType = 2
	SimObjectTypeHelicopter SimObjectType = 3
	SimObjectTypeBoat       SimObjectType = 4
	SimObjectTypeGround     SimObjectType = 5
)

// FacilityListType selects a facility database for list requests.
type FacilityListType uint32

const (
	FacilityListTypeAirport  FacilityListType = 0
	FacilityListTypeWaypoint FacilityListType = 1
	FacilityListTypeNDB      FacilityListType = 2
	FacilityListTypeVOR      FacilityListType = 3
	FacilityListTypeCount    FacilityListType = 4
)

// Valid reports whether t names a facility database.
func (t FacilityListType) Valid() bool { return t < FacilityListTypeCount }

// TextType selects how free-form text is displayed.
type TextType uint32

const (
	TextTypeScrollBlack   TextType = 0
	TextTypeScrollWhite   TextType = 1
	TextTypeScrollRed     TextType = 2
	TextTypeScrollGreen   TextType = 3
	TextTypeScrollBlue    TextType = 4
	TextTypeScrollYellow  TextType = 5
	TextTypeScrollMagenta TextType = 6
	TextTypeScrollCyan    TextType = 7
	TextTypePrintBlack    TextType = 0x100
	TextTypePrintWhite    TextType = 0x101
	TextTypePrintRed      TextType = 0x102
	TextTypePrintGreen    TextType = 0x103
	TextTypePrintBlue     TextType = 0x104
	TextTypePrintYellow   TextType = 0x105
	TextTypePrintMagenta  TextType = 0x106
	TextTypePrintCyan     TextType = 0x107
	TextTypeMenu          TextType = 0x200
)

// Exception codes reported asynchronously by the server.
const (
	ExceptionNone                    uint32 = 0
	ExceptionError                   uint32 = 1
	ExceptionSizeMismatch            uint32 = 2
	ExceptionUnrecognizedID          uint32 = 3
	ExceptionUnopened                uint32 = 4
	ExceptionVersionMismatch         uint32 = 5
	ExceptionTooManyGroups           uint32 = 6
	ExceptionNameUnrecognized        uint32 = 7
	ExceptionTooManyEventNames       uint32 = 8
	ExceptionEventIDDuplicate        uint32 = 9
	ExceptionTooManyMaps             uint32 = 10
	ExceptionTooManyObjects          uint32 = 11
	ExceptionTooManyRequests         uint32 = 12
	ExceptionWeatherInvalidPort      uint32 = 13
	ExceptionWeatherInvalidMetar     uint32 = 14
	ExceptionWeatherUnableToGetObs   uint32 = 15
	ExceptionWeatherUnableToCreate   uint32 = 16
	ExceptionWeatherUnableToRemove   uint32 = 17
	ExceptionInvalidDataType         uint32 = 18
	ExceptionInvalidDataSize         uint32 = 19
	ExceptionDataError               uint32 = 20
	ExceptionInvalidArray            uint32 = 21
	ExceptionCreateObjectFailed      uint32 = 22
	ExceptionLoadFlightplanFailed    uint32 = 23
	ExceptionOperationInvalidForType uint32 = 24
	ExceptionIllegalOperation        uint32 = 25
	ExceptionAlreadySubscribed       uint32 = 26
	ExceptionInvalidEnum             uint32 = 27
	ExceptionDefinitionError         uint32 = 28
	ExceptionDuplicateID             uint32 = 29
	ExceptionDatumID                 uint32 = 30
	ExceptionOutOfBounds             uint32 = 31
	ExceptionAlreadyCreated          uint32 = 32
	ExceptionObjectOutsideReality    uint32 = 33
	ExceptionObjectContainer         uint32 = 34
	ExceptionObjectAI                uint32 = 35
	ExceptionObjectATC               uint32 = 36
	ExceptionObjectSchedule          uint32 = 37
)
