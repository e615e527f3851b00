package model

// MaxDrivers is the fixed number of vehicle slots the game reports.
// Vehicle index is stable for the whole session, so the slot array is
// allocated once and never resized.
const MaxDrivers = 22

// MaxLaps caps the preallocated per-driver lap slots. F1 2020 races run
// well under this on every current calendar entry.
const MaxLaps = 100

// Lap holds the timing data for a single lap of a single driver.
// A zero value for Sector1, Sector2 or Lap means "not yet known".
type Lap struct {
	Sector1         float64
	Sector2         float64
	Lap             float64
	LapsAccumulated float64
	Incidents       []*SessionEvent
}

// WearDetail carries the four-corner tire/brake temperatures, tire wear,
// front wing damage, and engine temperature for one car.
type WearDetail struct {
	WearFrontLeft  float64
	WearFrontRight float64
	WearRearLeft   float64
	WearRearRight  float64

	DamageFrontLeft  float64
	DamageFrontRight float64

	TempFrontLeftInner  float64
	TempFrontRightInner float64
	TempRearLeftInner   float64
	TempRearRightInner  float64

	TempFrontLeftOuter  float64
	TempFrontRightOuter float64
	TempRearLeftOuter   float64
	TempRearRightOuter  float64

	TempBrakeFrontLeft  float64
	TempBrakeFrontRight float64
	TempBrakeRearLeft   float64
	TempBrakeRearRight  float64

	TempEngine float64
}

// Driver is one of the MaxDrivers fixed vehicle slots. The slot index is
// the game's vehicle index and never changes meaning within a session.
type Driver struct {
	Present  bool
	IsPlayer bool

	Name          string // resolved display name (see NameResolver)
	TelemetryName string // raw name as delivered by the Participants packet
	MappedName    string // last applied override from a DriverNameMapping, if any
	Team          F1Team
	RaceNumber    int

	Pos     int
	LapNr   int
	TyreAge int

	Tyre        F1Tyre
	VisualTyre  F1VisualTyre
	VisualTyres []F1VisualTyre

	Status         DriverStatus
	PenaltySeconds int
	TyreDamage     float64
	CarDamage      float64
	WearDetail     WearDetail

	Laps         [MaxLaps]Lap
	PitPenalties []*SessionEvent

	FastestLap            Lap
	TimedeltaToPlayer     float64
	LastTimedeltaToPlayer float64
	TimedeltaToLeader     float64

	// internal bookkeeping, not part of the observable snapshot contract
	// but exported so tests can assert on it directly.
	HasPitted      bool
	LapTiresFitted int
}

// Reset returns the driver to its post-construction state. Called on every
// SessionStarted (SSTA) event; names are re-resolved as new Participants
// packets arrive.
func (d *Driver) Reset() {
	*d = Driver{}
}
