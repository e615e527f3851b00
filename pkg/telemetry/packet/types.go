package packet

import "github.com/adjsw/f1telemetry/pkg/model"

// SessionPacket carries the subset of the game's Session packet the model
// cares about: track, session type, lap count and remaining time.
type SessionPacket struct {
	TrackID         int8
	SessionTypeID   uint8
	TotalLaps       uint8
	_               uint8 // alignment filler, not read
	SessionTimeLeft uint16
}

// LapData is one car's row within a LapDataPacket.
type LapData struct {
	LastLapTime     float32
	BestLapTime     float32
	Sector1TimeInMS uint16
	Sector2TimeInMS uint16
	CarPosition     uint8
	CurrentLapNum   uint8
	PitStatus       uint8
	Sector          uint8
	Penalties       uint8
	DriverStatus    uint8
	ResultStatus    uint8
	_               uint8 // alignment filler
}

// LapDataPacket is one row per car slot, indexed by vehicle index.
type LapDataPacket struct {
	Cars [model.MaxDrivers]LapData
}

// EventDetails is a flattened union of every event code's payload; fields
// unused by a given code are left zero. See spec.md §6.
type EventDetails struct {
	VehicleIdx       uint8
	OtherVehicleIdx  uint8
	PenaltyType      uint8
	InfringementType uint8
	LapNum           uint8
	PlacesGained     uint8
	Time             float32
	Speed            float32
}

// EventPacket carries a 4-ASCII-byte event code plus its (possibly empty)
// details union.
type EventPacket struct {
	EventStringCode [4]byte
	Details         EventDetails
}

// ParticipantData is one car's row within a ParticipantsPacket.
type ParticipantData struct {
	AIControlled uint8
	TeamID       uint8
	RaceNumber   uint8
	DriverID     uint8
	Name         [48]byte
}

// ParticipantsPacket reports which car slots are occupied and by whom.
type ParticipantsPacket struct {
	NumActiveCars uint8
	_             [3]byte // alignment filler
	Participants  [model.MaxDrivers]ParticipantData
}

// CarTelemetryData is one car's row within a CarTelemetryPacket: the
// temperature readings the wear model needs.
type CarTelemetryData struct {
	TyresSurfaceTemperature [4]float32
	TyresInnerTemperature   [4]float32
	BrakesTemperature       [4]float32
	EngineTemperature       float32
}

// CarTelemetryPacket is one row per car slot.
type CarTelemetryPacket struct {
	Cars [model.MaxDrivers]CarTelemetryData
}

// CarStatusData is one car's row within a CarStatusPacket: tire
// compound/wear/damage state. TyresWear and TyresDamage are distinct game
// telemetry quantities — wear is cosmetic/grip-model input, TyresDamage is
// the structural damage value the damage model is computed from.
type CarStatusData struct {
	TyresWear            [4]float32
	TyresDamage          [4]float32
	ActualTyreCompound   uint8
	VisualTyreCompound   uint8
	_                    [2]byte // alignment filler
	FrontLeftWingDamage  float32
	FrontRightWingDamage float32
	RearWingDamage       float32
}

// CarStatusPacket is one row per car slot.
type CarStatusPacket struct {
	Cars [model.MaxDrivers]CarStatusData
}

// FinalClassificationData is one car's row within a
// FinalClassificationPacket.
type FinalClassificationData struct {
	Position      uint8
	NumLaps       uint8
	GridPosition  uint8
	Points        uint8
	NumPenalties  uint8
	PenaltiesTime uint8
	_             [2]byte // alignment filler
	BestLapTime   float32
	TotalRaceTime float64
}

// FinalClassificationPacket is the once-per-session end-of-event result
// set. NumCars == 0 means "not yet emitted"; see ClassificationCapture (C8).
type FinalClassificationPacket struct {
	NumCars        uint8
	_              [3]byte // alignment filler
	Classification [model.MaxDrivers]FinalClassificationData
}

// motionCarData and carSetupData are never read by the core; they exist
// only so Decode knows how many bytes to skip for packet types 0 and 5.
type motionCarData struct {
	WorldPositionX, WorldPositionY, WorldPositionZ float32
}

type motionPacket struct {
	Cars [model.MaxDrivers]motionCarData
}

type carSetupData struct {
	FrontWing, RearWing uint8
	_                   uint16
}

type carSetupsPacket struct {
	Cars [model.MaxDrivers]carSetupData
}

// Packet is the decoded envelope: Header is always populated, and exactly
// one of the typed fields is non-nil for the packet types the core acts
// on (Session, LapData, Event, Participants, CarTelemetry, CarStatus,
// FinalClassification). Motion, CarSetups and unrecognized types leave
// every typed field nil. For Motion and CarSetups Decode still reports the
// full consumed length so the caller can advance to the next packet in the
// datagram; for an unrecognized type it reports only HeaderSize.
type Packet struct {
	Header Header

	Session             *SessionPacket
	LapData             *LapDataPacket
	Event               *EventPacket
	Participants        *ParticipantsPacket
	CarTelemetry        *CarTelemetryPacket
	CarStatus           *CarStatusPacket
	FinalClassification *FinalClassificationPacket
}
