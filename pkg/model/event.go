package model

import "time"

// EventType is the typed counterpart of the game's 4-ASCII-byte event code.
type EventType int

const (
	EventUnknown EventType = iota
	EventSessionStarted
	EventSessionEnded
	EventFastestLap
	EventRetirement
	EventDRSEnabled
	EventDRSDisabled
	EventTeamMateInPits
	EventChequeredFlag
	EventRaceWinner
	EventPenaltyIssued
	EventSpeedTrapTriggered
)

func (e EventType) String() string {
	names := [...]string{
		"Unknown", "SessionStarted", "SessionEnded", "FastestLap", "Retirement",
		"DRSEnabled", "DRSDisabled", "TeamMateInPits", "ChequeredFlag",
		"RaceWinner", "PenaltyIssued", "SpeedTrapTriggered",
	}
	if int(e) < 0 || int(e) >= len(names) {
		return "Unknown"
	}
	return names[e]
}

// SessionEvent is one append-only entry in the session's event log. Only
// PenaltyIssued events populate the penalty-specific fields.
type SessionEvent struct {
	TimeCode time.Time
	Type     EventType
	CarIndex int

	PenaltyType      PenaltyTypes
	InfringementType InfringementTypes
	LapNum           int
	OtherVehicleIdx  int
	TimeGained       float64
	PlacesGained     int
	PenaltyServed    bool
}

// IsPitPenalty reports whether this penalty type is one that is tracked
// through to being served (spec.md §4.3): drive-through, stop-go,
// disqualification or retirement.
func (e *SessionEvent) IsPitPenalty() bool {
	switch e.PenaltyType {
	case PenaltyDriveThrough, PenaltyStopGo, PenaltyDisqualified, PenaltyRetired:
		return true
	default:
		return false
	}
}
