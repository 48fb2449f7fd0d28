package protocol

import "math"

// Fixed wire widths of the structured value types.
const (
	LatLonAltSize    = 24
	XYZSize          = 24
	WaypointSize     = 48
	InitPositionSize = 56
	MarkerStateSize  = 68
)

// Unit conversion factors. Conversions happen at the call site; the codec
// reads and writes raw field values only.
const (
	FeetPerMeter  = 1.0 / 0.3048
	MetersPerFoot = 0.3048
)

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 { return m * FeetPerMeter }

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 { return ft * MetersPerFoot }

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// RadiansToDegrees converts radians to degrees.
func RadiansToDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// LatLonAlt is a geodetic position: latitude and longitude in degrees,
// altitude in feet.
type LatLonAlt struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Read fills v from the buffer cursor.
func (v *LatLonAlt) Read(d *DataBuffer) {
	v.Latitude = d.ReadFloat64()
	v.Longitude = d.ReadFloat64()
	v.Altitude = d.ReadFloat64()
}

// Write appends v at the buffer cursor.
func (v LatLonAlt) Write(d *DataBuffer) {
	d.WriteFloat64(v.Latitude)
	d.WriteFloat64(v.Longitude)
	d.WriteFloat64(v.Altitude)
}

// XYZ is a point in 3-D Cartesian space.
type XYZ struct {
	X float64
	Y float64
	Z float64
}

// Read fills v from the buffer cursor.
func (v *XYZ) Read(d *DataBuffer) {
	v.X = d.ReadFloat64()
	v.Y = d.ReadFloat64()
	v.Z = d.ReadFloat64()
}

// Write appends v at the buffer cursor.
func (v XYZ) Write(d *DataBuffer) {
	d.WriteFloat64(v.X)
	d.WriteFloat64(v.Y)
	d.WriteFloat64(v.Z)
}

// Distance returns the Euclidean distance between v and o.
func (v XYZ) Distance(o XYZ) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// RotateX returns v rotated by angle radians around the X axis.
func (v XYZ) RotateX(angle float64) XYZ {
	s, c := math.Sincos(angle)
	return XYZ{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}

// RotateY returns v rotated by angle radians around the Y axis.
func (v XYZ) RotateY(angle float64) XYZ {
	s, c := math.Sincos(angle)
	return XYZ{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// RotateZ returns v rotated by angle radians around the Z axis.
func (v XYZ) RotateZ(angle float64) XYZ {
	s, c := math.Sincos(angle)
	return XYZ{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

// SphericalToCartesian converts a latitude/longitude pair (radians) at the
// given radius from the planet center to Cartesian coordinates.
func SphericalToCartesian(lat, lon, radius float64) XYZ {
	return XYZ{
		X: radius * math.Cos(lat) * math.Sin(lon),
		Y: radius * math.Sin(lat),
		Z: radius * math.Cos(lat) * math.Cos(lon),
	}
}

// Waypoint flag bits selecting which optional fields are meaningful.
const (
	WaypointSpeedRequested       uint32 = 0x04
	WaypointThrottleRequested    uint32 = 0x08
	WaypointComputeVerticalSpeed uint32 = 0x10
	WaypointAltitudeIsAGL        uint32 = 0x20
	WaypointOnGround             uint32 = 0x100000
	WaypointReverse              uint32 = 0x200000
	WaypointWrapToFirst          uint32 = 0x400000
)

// Waypoint is one leg of an AI flight path. Speed (knots) and Throttle
// (percent) are only meaningful when the corresponding flag bit is set.
// The wire layout carries four reserved bytes after Flags.
type Waypoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Flags     uint32
	Speed     float64
	Throttle  float64
}

// Read fills v from the buffer cursor.
func (v *Waypoint) Read(d *DataBuffer) {
	v.Latitude = d.ReadFloat64()
	v.Longitude = d.ReadFloat64()
	v.Altitude = d.ReadFloat64()
	v.Flags = d.ReadUint32()
	d.Skip(4)
	v.Speed = d.ReadFloat64()
	v.Throttle = d.ReadFloat64()
}

// Write appends v at the buffer cursor.
func (v Waypoint) Write(d *DataBuffer) {
	d.WriteFloat64(v.Latitude)
	d.WriteFloat64(v.Longitude)
	d.WriteFloat64(v.Altitude)
	d.WriteUint32(v.Flags)
	d.WriteUint32(0)
	d.WriteFloat64(v.Speed)
	d.WriteFloat64(v.Throttle)
}

// InitPosition describes where and how an object is initially placed.
// Altitude is feet, attitude angles are degrees, airspeed is knots.
type InitPosition struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Pitch     float64
	Bank      float64
	Heading   float64
	OnGround  bool
	Airspeed  int32
}

// Read fills v from the buffer cursor.
func (v *InitPosition) Read(d *DataBuffer) {
	v.Latitude = d.ReadFloat64()
	v.Longitude = d.ReadFloat64()
	v.Altitude = d.ReadFloat64()
	v.Pitch = d.ReadFloat64()
	v.Bank = d.ReadFloat64()
	v.Heading = d.ReadFloat64()
	v.OnGround = d.ReadUint32() != 0
	v.Airspeed = d.ReadInt32()
}

// Write appends v at the buffer cursor.
func (v InitPosition) Write(d *DataBuffer) {
	d.WriteFloat64(v.Latitude)
	d.WriteFloat64(v.Longitude)
	d.WriteFloat64(v.Altitude)
	d.WriteFloat64(v.Pitch)
	d.WriteFloat64(v.Bank)
	d.WriteFloat64(v.Heading)
	if v.OnGround {
		d.WriteUint32(1)
	} else {
		d.WriteUint32(0)
	}
	d.WriteInt32(v.Airspeed)
}

// MarkerState toggles one named visual marker on or off.
type MarkerState struct {
	Name string
	On   bool
}

// Read fills v from the buffer cursor.
func (v *MarkerState) Read(d *DataBuffer) {
	v.Name = d.ReadString(64)
	v.On = d.ReadUint32() != 0
}

// Write appends v at the buffer cursor.
func (v MarkerState) Write(d *DataBuffer) {
	d.WriteString(v.Name, 64)
	if v.On {
		d.WriteUint32(1)
	} else {
		d.WriteUint32(0)
	}
}
