// Package packet implements C1, the PacketDecoder: turning a contiguous
// UDP datagram into one of the game's typed telemetry packets.
//
// The byte-level wire format is, per spec.md §1, externally specified by
// the game vendor and out of scope for this system. The layouts below are
// a faithful-in-spirit subset: little-endian, fixed-size, one struct per
// packet type, carrying exactly the fields the rest of the system reads.
// Bytes belonging to fields the core never consumes (motion vectors, car
// setup parameters, ...) are modelled as opaque filler so Decode can still
// skip over them by size.
package packet

import "encoding/binary"

// PacketID identifies which telemetry packet body follows the header.
type PacketID uint8

const (
	IDMotion PacketID = iota
	IDSession
	IDLapData
	IDEvent
	IDParticipants
	IDCarSetups
	IDCarTelemetry
	IDCarStatus
	IDFinalClassification
)

func (id PacketID) String() string {
	names := [...]string{
		"Motion", "Session", "LapData", "Event", "Participants",
		"CarSetups", "CarTelemetry", "CarStatus", "FinalClassification",
	}
	if int(id) < 0 || int(id) >= len(names) {
		return "Unknown"
	}
	return names[id]
}

// HeaderSize is the fixed wire size of Header.
const HeaderSize = 23

// Header precedes every packet body.
type Header struct {
	PacketFormat     uint16
	GameMajorVersion uint8
	GameMinorVersion uint8
	PacketVersion    uint8
	PacketID         PacketID
	SessionUID       uint64
	SessionTime      float32
	FrameIdentifier  uint32
	PlayerCarIndex   uint8
}

var byteOrder = binary.LittleEndian
