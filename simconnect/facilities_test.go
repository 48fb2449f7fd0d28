package simconnect

import (
	"testing"

	"github.com/simlink-project/simlink/protocol"
)

func writeFacilityPage(b *protocol.DataBuffer, requestID, arraySize uint32) {
	b.WriteUint32(requestID)
	b.WriteUint32(arraySize)
	b.WriteUint32(0) // entry number
	b.WriteUint32(1) // out of
}

func writeAirport(b *protocol.DataBuffer, icao string, lat, lon, alt float64) {
	b.WriteString(icao, 9)
	b.WriteFloat64(lat)
	b.WriteFloat64(lon)
	b.WriteFloat64(alt)
}

func TestDecodeAirportList(t *testing.T) {
	frame := buildFrame(protocol.RecvIDAirportList, func(b *protocol.DataBuffer) {
		writeFacilityPage(b, 7, 2)
		writeAirport(b, "KSEA", 47.45, -122.31, 433)
		writeAirport(b, "KBFI", 47.53, -122.30, 21)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list := rec.(*RecvAirportList)
	if list.RequestID != 7 || list.ArraySize != 2 {
		t.Fatalf("page header = %+v", list.facilityList)
	}
	if len(list.Airports) != 2 {
		t.Fatalf("len(Airports) = %d", len(list.Airports))
	}
	if list.Airports[0].ICAO != "KSEA" || list.Airports[0].Altitude != 433 {
		t.Errorf("airport[0] = %+v", list.Airports[0])
	}
	if list.Airports[1].ICAO != "KBFI" {
		t.Errorf("airport[1] = %+v", list.Airports[1])
	}
}

func TestDecodeWaypointList(t *testing.T) {
	frame := buildFrame(protocol.RecvIDWaypointList, func(b *protocol.DataBuffer) {
		writeFacilityPage(b, 3, 1)
		writeAirport(b, "ELMAA", 47.0, -121.0, 0)
		b.WriteFloat32(-15.5)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list := rec.(*RecvWaypointList)
	if len(list.Waypoints) != 1 {
		t.Fatalf("len(Waypoints) = %d", len(list.Waypoints))
	}
	wp := list.Waypoints[0]
	if wp.ICAO != "ELMAA" || wp.MagVar != -15.5 {
		t.Fatalf("waypoint = %+v", wp)
	}
}

func TestDecodeNDBList(t *testing.T) {
	frame := buildFrame(protocol.RecvIDNDBList, func(b *protocol.DataBuffer) {
		writeFacilityPage(b, 4, 1)
		writeAirport(b, "SE", 47.0, -122.0, 0)
		b.WriteFloat32(2.0)
		b.WriteUint32(362000)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list := rec.(*RecvNDBList)
	if len(list.NDBs) != 1 || list.NDBs[0].Frequency != 362000 {
		t.Fatalf("ndb list = %+v", list.NDBs)
	}
}

func TestDecodeVORList(t *testing.T) {
	frame := buildFrame(protocol.RecvIDVORList, func(b *protocol.DataBuffer) {
		writeFacilityPage(b, 5, 1)
		writeAirport(b, "SEA", 47.43, -122.31, 0)
		b.WriteFloat32(19.0)
		b.WriteUint32(116800000)
		b.WriteUint32(VORHasNavSignal | VORHasDME)
		b.WriteFloat32(0)
		b.WriteFloat64(0)
		b.WriteFloat64(0)
		b.WriteFloat64(0)
		b.WriteFloat32(0)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list := rec.(*RecvVORList)
	if len(list.VORs) != 1 {
		t.Fatalf("len(VORs) = %d", len(list.VORs))
	}
	vor := list.VORs[0]
	if vor.ICAO != "SEA" || vor.Frequency != 116800000 {
		t.Errorf("vor = %+v", vor)
	}
	if vor.Flags&VORHasDME == 0 || vor.Flags&VORHasGlideSlope != 0 {
		t.Errorf("flags = 0x%x", vor.Flags)
	}
}

func TestDecodeFacilityListTruncated(t *testing.T) {
	// Declared two entries, carries one: the sticky error surfaces.
	frame := buildFrame(protocol.RecvIDAirportList, func(b *protocol.DataBuffer) {
		writeFacilityPage(b, 1, 2)
		writeAirport(b, "KSEA", 47.45, -122.31, 433)
	})
	if _, err := decode(frame); err == nil {
		t.Fatal("truncated facility page decoded without error")
	}
}
