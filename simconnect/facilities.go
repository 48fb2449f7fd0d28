package simconnect

import "github.com/simlink-project/simlink/protocol"

// Facility records returned by facility list pages. The nested layouts
// mirror the server structs: each richer kind extends the previous one.

// FacilityAirport is the base facility record.
type FacilityAirport struct {
	ICAO      string
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// FacilityWaypoint adds magnetic variation.
type FacilityWaypoint struct {
	FacilityAirport
	MagVar float32
}

// FacilityNDB adds the beacon frequency in Hz.
type FacilityNDB struct {
	FacilityWaypoint
	Frequency uint32
}

// VOR flag bits reporting which optional VOR fields are populated.
const (
	VORHasNavSignal  uint32 = 0x1
	VORHasLocalizer  uint32 = 0x2
	VORHasGlideSlope uint32 = 0x4
	VORHasDME        uint32 = 0x8
)

// FacilityVOR adds localizer and glide slope data.
type FacilityVOR struct {
	FacilityNDB
	Flags           uint32
	Localizer       float32
	GlideLat        float64
	GlideLon        float64
	GlideAlt        float64
	GlideSlopeAngle float32
}

// facilityList is the page header shared by the four list record kinds.
type facilityList struct {
	RequestID   uint32
	ArraySize   uint32
	EntryNumber uint32
	OutOf       uint32
}

// RecvAirportList is one page of airport facilities.
type RecvAirportList struct {
	Packet
	facilityList
	Airports []FacilityAirport
}

// RecvWaypointList is one page of waypoint facilities.
type RecvWaypointList struct {
	Packet
	facilityList
	Waypoints []FacilityWaypoint
}

// RecvNDBList is one page of NDB facilities.
type RecvNDBList struct {
	Packet
	facilityList
	NDBs []FacilityNDB
}

// RecvVORList is one page of VOR facilities.
type RecvVORList struct {
	Packet
	facilityList
	VORs []FacilityVOR
}

func readFacilityList(d *protocol.DataBuffer) facilityList {
	return facilityList{
		RequestID:   d.ReadUint32(),
		ArraySize:   d.ReadUint32(),
		EntryNumber: d.ReadUint32(),
		OutOf:       d.ReadUint32(),
	}
}

func readFacilityAirport(d *protocol.DataBuffer) FacilityAirport {
	return FacilityAirport{
		ICAO:      d.ReadString(9),
		Latitude:  d.ReadFloat64(),
		Longitude: d.ReadFloat64(),
		Altitude:  d.ReadFloat64(),
	}
}

func readFacilityWaypoint(d *protocol.DataBuffer) FacilityWaypoint {
	return FacilityWaypoint{
		FacilityAirport: readFacilityAirport(d),
		MagVar:          d.ReadFloat32(),
	}
}

func readFacilityNDB(d *protocol.DataBuffer) FacilityNDB {
	return FacilityNDB{
		FacilityWaypoint: readFacilityWaypoint(d),
		Frequency:        d.ReadUint32(),
	}
}

func readFacilityVOR(d *protocol.DataBuffer) FacilityVOR {
	return FacilityVOR{
		FacilityNDB:     readFacilityNDB(d),
		Flags:           d.ReadUint32(),
		Localizer:       d.ReadFloat32(),
		GlideLat:        d.ReadFloat64(),
		GlideLon:        d.ReadFloat64(),
		GlideAlt:        d.ReadFloat64(),
		GlideSlopeAngle: d.ReadFloat32(),
	}
}

func decodeAirportList(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvAirportList{Packet: p, facilityList: readFacilityList(d)}
	r.Airports = make([]FacilityAirport, 0, min(r.ArraySize, 64))
	for i := uint32(0); i < r.ArraySize && d.Err() == nil; i++ {
		r.Airports = append(r.Airports, readFacilityAirport(d))
	}
	return r
}

func decodeWaypointList(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvWaypointList{Packet: p, facilityList: readFacilityList(d)}
	r.Waypoints = make([]FacilityWaypoint, 0, min(r.ArraySize, 64))
	for i := uint32(0); i < r.ArraySize && d.Err() == nil; i++ {
		r.Waypoints = append(r.Waypoints, readFacilityWaypoint(d))
	}
	return r
}

func decodeNDBList(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvNDBList{Packet: p, facilityList: readFacilityList(d)}
	r.NDBs = make([]FacilityNDB, 0, min(r.ArraySize, 64))
	for i := uint32(0); i < r.ArraySize && d.Err() == nil; i++ {
		r.NDBs = append(r.NDBs, readFacilityNDB(d))
	}
	return r
}

func decodeVORList(p Packet, d *protocol.DataBuffer) Recv {
	r := &RecvVORList{Packet: p, facilityList: readFacilityList(d)}
	r.VORs = make([]FacilityVOR, 0, min(r.ArraySize, 64))
	for i := uint32(0); i < r.ArraySize && d.Err() == nil; i++ {
		r.VORs = append(r.VORs, readFacilityVOR(d))
	}
	return r
}
