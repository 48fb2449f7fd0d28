package simconnect

import (
	"bytes"
	"testing"

	"github.com/simlink-project/simlink/protocol"
)

// buildFrame assembles a complete inbound frame for decoder tests.
func buildFrame(id protocol.RecvID, payload func(b *protocol.DataBuffer)) *protocol.DataBuffer {
	b := protocol.NewDataBuffer(512)
	b.Extend(protocol.HeaderSize)
	if payload != nil {
		payload(b)
	}
	protocol.PutHeader(b.Bytes(), protocol.Header{
		Size:    uint32(b.Len()),
		Version: uint32(protocol.VersionSP2),
		Opcode:  uint32(id),
		SendID:  0,
	})
	return b
}

func TestDecodeOpen(t *testing.T) {
	frame := buildFrame(protocol.RecvIDOpen, func(b *protocol.DataBuffer) {
		b.WriteString("Flight Simulator X", 256)
		for _, v := range []uint32{10, 0, 61259, 0, 10, 0, 61259, 0} {
			b.WriteUint32(v)
		}
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	open, ok := rec.(*RecvOpen)
	if !ok {
		t.Fatalf("decoded %T, want *RecvOpen", rec)
	}
	if open.ApplicationName != "Flight Simulator X" {
		t.Errorf("ApplicationName = %q", open.ApplicationName)
	}
	if open.AppBuildMajor != 61259 || open.SimBuildMajor != 61259 {
		t.Errorf("build = %d/%d", open.AppBuildMajor, open.SimBuildMajor)
	}
	if open.ID != protocol.RecvIDOpen {
		t.Errorf("packet id = %d", open.ID)
	}
}

func TestDecodeQuit(t *testing.T) {
	rec, err := decode(buildFrame(protocol.RecvIDQuit, nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := rec.(*RecvQuit); !ok {
		t.Fatalf("decoded %T, want *RecvQuit", rec)
	}
}

func TestDecodeException(t *testing.T) {
	frame := buildFrame(protocol.RecvIDException, func(b *protocol.DataBuffer) {
		b.WriteUint32(protocol.ExceptionNameUnrecognized)
		b.WriteUint32(12)
		b.WriteUint32(1)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ex := rec.(*RecvException)
	if ex.ExceptionID != protocol.ExceptionNameUnrecognized || ex.SendID != 12 || ex.Index != 1 {
		t.Fatalf("exception = %+v", ex)
	}
}

func TestDecodeEvent(t *testing.T) {
	frame := buildFrame(protocol.RecvIDEvent, func(b *protocol.DataBuffer) {
		b.WriteUint32(UnknownGroup)
		b.WriteUint32(1001)
		b.WriteUint32(5)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ev := rec.(*RecvEvent)
	if ev.GroupID != UnknownGroup || ev.EventID != 1001 || ev.Data != 5 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestDecodeEventSubtypes(t *testing.T) {
	rec, err := decode(buildFrame(protocol.RecvIDEventObjectAddRemove, func(b *protocol.DataBuffer) {
		b.WriteUint32(UnknownGroup)
		b.WriteUint32(2)
		b.WriteUint32(77) // object id rides in Data
		b.WriteUint32(uint32(protocol.SimObjectTypeAircraft))
	}))
	if err != nil {
		t.Fatalf("decode object add/remove: %v", err)
	}
	oar := rec.(*RecvEventObjectAddRemove)
	if oar.Data != 77 || oar.ObjType != protocol.SimObjectTypeAircraft {
		t.Fatalf("object add/remove = %+v", oar)
	}

	rec, err = decode(buildFrame(protocol.RecvIDEventFilename, func(b *protocol.DataBuffer) {
		b.WriteUint32(UnknownGroup)
		b.WriteUint32(3)
		b.WriteUint32(0)
		b.WriteString(`C:\flights\approach.flt`, 260)
		b.WriteUint32(0)
	}))
	if err != nil {
		t.Fatalf("decode filename: %v", err)
	}
	fn := rec.(*RecvEventFilename)
	if fn.FileName != `C:\flights\approach.flt` {
		t.Fatalf("FileName = %q", fn.FileName)
	}

	rec, err = decode(buildFrame(protocol.RecvIDEventFrame, func(b *protocol.DataBuffer) {
		b.WriteUint32(UnknownGroup)
		b.WriteUint32(4)
		b.WriteUint32(0)
		b.WriteFloat32(29.97)
		b.WriteFloat32(1.0)
	}))
	if err != nil {
		t.Fatalf("decode frame event: %v", err)
	}
	fr := rec.(*RecvEventFrame)
	if fr.FrameRate != 29.97 || fr.SimSpeed != 1.0 {
		t.Fatalf("frame event = %+v", fr)
	}
}

func TestDecodeRaceLap(t *testing.T) {
	guid := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	frame := buildFrame(protocol.RecvIDEventRaceLap, func(b *protocol.DataBuffer) {
		b.WriteUint32(UnknownGroup)
		b.WriteUint32(9)
		b.WriteUint32(0)
		b.WriteUint32(2) // lap index
		b.WriteUint32(4) // racers
		b.WriteBytes(guid[:])
		b.WriteString("Player One", 260)
		b.WriteString("LAN", 260)
		b.WriteString("Extra 300S", 260)
		b.WriteString("racer", 260)
		b.WriteFloat64(81.25)
		b.WriteFloat64(2.5)
		b.WriteUint32(1)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lap := rec.(*RecvEventRaceLap)
	if lap.LapIndex != 2 {
		t.Errorf("LapIndex = %d", lap.LapIndex)
	}
	r := lap.Result
	if r.NumberOfRacers != 4 || r.MissionGUID != guid {
		t.Errorf("result header = %+v", r)
	}
	if r.PlayerName != "Player One" || r.Aircraft != "Extra 300S" {
		t.Errorf("result strings = %q / %q", r.PlayerName, r.Aircraft)
	}
	if r.TotalTime != 81.25 || r.PenaltyTime != 2.5 || !r.Disqualified {
		t.Errorf("result times = %+v", r)
	}
}

func TestDecodeSimObjectData(t *testing.T) {
	frame := buildFrame(protocol.RecvIDSimObjectData, func(b *protocol.DataBuffer) {
		b.WriteUint32(1) // request
		b.WriteUint32(protocol.ObjectIDUser)
		b.WriteUint32(1) // define
		b.WriteUint32(0) // flags
		b.WriteUint32(1) // entry
		b.WriteUint32(1) // out of
		b.WriteUint32(2) // define count
		b.WriteFloat64(47.45)
		b.WriteFloat64(-122.31)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	row := rec.(*RecvSimObjectData)
	if row.RequestID != 1 || row.DefineCount != 2 {
		t.Fatalf("row header = %+v", row)
	}
	if got := row.GetFloat64(); got != 47.45 {
		t.Errorf("first field = %v", got)
	}
	if got := row.GetFloat64(); got != -122.31 {
		t.Errorf("second field = %v", got)
	}

	// The cursor rewinds for a second full read.
	row.ResetData()
	if got := row.GetFloat64(); got != 47.45 {
		t.Errorf("first field after reset = %v", got)
	}
}

func TestSimObjectDataSurvivesFrameReuse(t *testing.T) {
	frame := buildFrame(protocol.RecvIDSimObjectData, func(b *protocol.DataBuffer) {
		for i := 0; i < 7; i++ {
			b.WriteUint32(1)
		}
		b.WriteFloat64(1234.5)
	})

	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	row := rec.(*RecvSimObjectData)

	// Clobber the original frame, as the receive scratch reuse would.
	raw := frame.Bytes()
	for i := range raw {
		raw[i] = 0xFF
	}

	if got := row.GetFloat64(); got != 1234.5 {
		t.Fatalf("field after scratch reuse = %v, want 1234.5", got)
	}
}

func TestDecodeSimObjectDataVariants(t *testing.T) {
	payload := func(b *protocol.DataBuffer) {
		for i := 0; i < 7; i++ {
			b.WriteUint32(3)
		}
		b.WriteFloat64(9.5)
	}

	rec, err := decode(buildFrame(protocol.RecvIDSimObjectDataByType, payload))
	if err != nil {
		t.Fatalf("decode by type: %v", err)
	}
	if byType, ok := rec.(*RecvSimObjectDataByType); !ok || byType.GetFloat64() != 9.5 {
		t.Fatalf("by-type row = %T", rec)
	}

	rec, err = decode(buildFrame(protocol.RecvIDClientData, payload))
	if err != nil {
		t.Fatalf("decode client data: %v", err)
	}
	if cd, ok := rec.(*RecvClientData); !ok || cd.GetFloat64() != 9.5 {
		t.Fatalf("client data row = %T", rec)
	}
}

func TestDecodeWeatherObservation(t *testing.T) {
	const metar = "KSEA 231753Z 18010KT 10SM FEW040 21/12 A3002"
	frame := buildFrame(protocol.RecvIDWeatherObservation, func(b *protocol.DataBuffer) {
		b.WriteUint32(5)
		b.WriteStringV(metar)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obs := rec.(*RecvWeatherObservation)
	if obs.RequestID != 5 || obs.Metar != metar {
		t.Fatalf("observation = %+v", obs)
	}
}

func TestDecodeCloudState(t *testing.T) {
	grid := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	frame := buildFrame(protocol.RecvIDCloudState, func(b *protocol.DataBuffer) {
		b.WriteUint32(2)
		b.WriteUint32(uint32(len(grid)))
		b.WriteBytes(grid)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cs := rec.(*RecvCloudState)
	if cs.ArraySize != 8 || !bytes.Equal(cs.Data, grid) {
		t.Fatalf("cloud state = %+v", cs)
	}
}

func TestDecodeAssignedObjectID(t *testing.T) {
	frame := buildFrame(protocol.RecvIDAssignedObjectID, func(b *protocol.DataBuffer) {
		b.WriteUint32(3)
		b.WriteUint32(4242)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	a := rec.(*RecvAssignedObjectID)
	if a.RequestID != 3 || a.ObjectID != 4242 {
		t.Fatalf("assigned = %+v", a)
	}
}

func TestDecodeReservedKey(t *testing.T) {
	frame := buildFrame(protocol.RecvIDReservedKey, func(b *protocol.DataBuffer) {
		b.WriteString("A", 30)
		b.WriteString("shift+ctrl+a", 50)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	k := rec.(*RecvReservedKey)
	if k.ChoiceReserved != "A" || k.ReservedKey != "shift+ctrl+a" {
		t.Fatalf("reserved key = %+v", k)
	}
}

func TestDecodeCustomAction(t *testing.T) {
	guid := [16]byte{0xAA, 0xBB}
	frame := buildFrame(protocol.RecvIDCustomAction, func(b *protocol.DataBuffer) {
		b.WriteBytes(guid[:])
		b.WriteUint32(1)
		b.WriteStringV("payload text")
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ca := rec.(*RecvCustomAction)
	if ca.InstanceID != guid || !ca.WaitForCompletion || ca.PayloadString != "payload text" {
		t.Fatalf("custom action = %+v", ca)
	}
}

func TestDecodeSystemState(t *testing.T) {
	frame := buildFrame(protocol.RecvIDSystemState, func(b *protocol.DataBuffer) {
		b.WriteUint32(6)
		b.WriteUint32(1)
		b.WriteFloat32(0.5)
		b.WriteString("C:\\sim\\current.flt", 260)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	st := rec.(*RecvSystemState)
	if st.RequestID != 6 || st.DataInteger != 1 || st.DataFloat != 0.5 {
		t.Fatalf("system state = %+v", st)
	}
	if st.DataString != "C:\\sim\\current.flt" {
		t.Fatalf("DataString = %q", st.DataString)
	}
}

func TestDecodeUnknownIsNotAnError(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frame := buildFrame(protocol.RecvID(99), func(b *protocol.DataBuffer) {
		b.WriteBytes(payload)
	})
	rec, err := decode(frame)
	if err != nil {
		t.Fatalf("unknown response id returned error: %v", err)
	}
	u, ok := rec.(*RecvUnknown)
	if !ok {
		t.Fatalf("decoded %T, want *RecvUnknown", rec)
	}
	if u.ID != protocol.RecvID(99) {
		t.Errorf("packet id = %d", u.ID)
	}
	if !bytes.Equal(u.Raw, payload) {
		t.Errorf("Raw = % x", u.Raw)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	// An exception frame cut off after one of its three words.
	frame := buildFrame(protocol.RecvIDException, func(b *protocol.DataBuffer) {
		b.WriteUint32(1)
	})
	if _, err := decode(frame); err == nil {
		t.Fatal("truncated payload decoded without error")
	}
}

func TestDecodeTruncatedCustomAction(t *testing.T) {
	// Cut off mid-GUID, before the variable string. Must error, not panic.
	frame := buildFrame(protocol.RecvIDCustomAction, func(b *protocol.DataBuffer) {
		b.WriteUint32(0xAABBCCDD)
	})
	if _, err := decode(frame); err == nil {
		t.Fatal("truncated custom action decoded without error")
	}
}

func TestDecodeTruncatedWeatherObservation(t *testing.T) {
	frame := buildFrame(protocol.RecvIDWeatherObservation, func(b *protocol.DataBuffer) {
		b.WriteBytes([]byte{0x05, 0x00}) // half of the request word
	})
	if _, err := decode(frame); err == nil {
		t.Fatal("truncated weather observation decoded without error")
	}
}

func TestDecodeCloudStateLyingArraySize(t *testing.T) {
	// The declared grid size is far larger than the frame carries. The decode
	// must fail without allocating anywhere near the declared size.
	frame := buildFrame(protocol.RecvIDCloudState, func(b *protocol.DataBuffer) {
		b.WriteUint32(2)
		b.WriteUint32(0xFFFFFFF0)
		b.WriteBytes([]byte{1, 2, 3, 4})
	})
	if _, err := decode(frame); err == nil {
		t.Fatal("cloud state with lying array size decoded without error")
	}
}
