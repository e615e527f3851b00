package session

import (
	"github.com/adjsw/f1telemetry/pkg/model"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
)

// eventFingerprint identifies one event packet instance. The game (or a
// lossy/duplicating transport) can deliver the exact same event more than
// once; comparing against the last one processed is this system's
// equivalent of the original sentinel-byte trick described in spec.md §9,
// expressed as an explicit field instead of mutating the caller's buffer.
type eventFingerprint struct {
	frame uint32
	code  [4]byte
	idx   uint8
}

var eventTypes = map[string]model.EventType{
	"SEND": model.EventSessionEnded,
	"FTLP": model.EventFastestLap,
	"RTMT": model.EventRetirement,
	"DRSE": model.EventDRSEnabled,
	"DRSD": model.EventDRSDisabled,
	"TMPT": model.EventTeamMateInPits,
	"CHQF": model.EventChequeredFlag,
	"RCWN": model.EventRaceWinner,
	"PENA": model.EventPenaltyIssued,
	"SPTP": model.EventSpeedTrapTriggered,
}

// interpretEvent is C3. It translates the raw 4-byte code into a typed
// SessionEvent, appends it to the append-only event list, and for
// penalties additionally files the event into the relevant driver's
// pitPenalties and lap incidents buckets.
func (m *Model) interpretEvent(hdr packet.Header, ev *packet.EventPacket) {
	fp := eventFingerprint{frame: hdr.FrameIdentifier, code: ev.EventStringCode, idx: ev.Details.VehicleIdx}
	if m.lastEvent == fp {
		return
	}
	m.lastEvent = fp

	code := string(ev.EventStringCode[:])
	carIdx := int(ev.Details.VehicleIdx)

	if code == "SSTA" {
		m.Reset()
		m.Events = append(m.Events, &model.SessionEvent{TimeCode: m.now(), Type: model.EventSessionStarted})
		return
	}

	evType, ok := eventTypes[code]
	if !ok {
		return
	}

	if code == "SEND" {
		m.Session.SessionFinished = true
	}

	se := &model.SessionEvent{
		TimeCode: m.now(),
		Type:     evType,
		CarIndex: carIdx,
	}

	switch code {
	case "PENA":
		se.PenaltyType = model.PenaltyTypes(ev.Details.PenaltyType)
		se.InfringementType = model.InfringementTypes(ev.Details.InfringementType)
		se.LapNum = int(ev.Details.LapNum)
		se.OtherVehicleIdx = int(ev.Details.OtherVehicleIdx)
		se.TimeGained = float64(ev.Details.Time)
		se.PlacesGained = int(ev.Details.PlacesGained)
	case "FTLP":
		se.TimeGained = float64(ev.Details.Time)
	case "SPTP":
		se.TimeGained = float64(ev.Details.Speed)
	}

	m.Events = append(m.Events, se)

	if code != "PENA" || carIdx < 0 || carIdx >= model.MaxDrivers {
		return
	}

	d := &m.Drivers[carIdx]
	if se.IsPitPenalty() {
		d.PitPenalties = append(d.PitPenalties, se)
	}

	lapIdx := se.LapNum - 1
	if lapIdx < 0 {
		lapIdx = 0
	}
	if lapIdx >= model.MaxLaps {
		lapIdx = model.MaxLaps - 1
	}
	d.Laps[lapIdx].Incidents = append(d.Laps[lapIdx].Incidents, se)
}
