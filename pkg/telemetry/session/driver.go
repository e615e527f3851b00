package session

import (
	"github.com/adjsw/f1telemetry/pkg/model"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
)

// updateDrivers is C4, run once per LapData packet — the per-cycle
// heartbeat the game emits for every car together. Participants,
// CarTelemetry and CarStatus arrive on their own cadence and are cached
// on Model (see apply); this routine folds the latest of each into the
// per-driver state in the contractual order from spec.md §4.4.
func (m *Model) updateDrivers(lap *packet.LapDataPacket, hdr packet.Header) {
	// 1. Active count bump: monotonically non-decreasing so a driver who
	// retires or disconnects stays visible in the slot array.
	if m.latestParticipants != nil && int(m.latestParticipants.NumActiveCars) > m.CountDrivers {
		m.CountDrivers = int(m.latestParticipants.NumActiveCars)
	}

	// 2. Name resolution, position and lap-timing reconstruction, for
	// every slot (not just CountDrivers — a late-joining car's data
	// still needs to accumulate before it is counted present).
	for i := range m.Drivers {
		d := &m.Drivers[i]
		row := &lap.Cars[i]

		if m.latestParticipants != nil {
			pd := &m.latestParticipants.Participants[i]
			unnamed := d.TelemetryName == ""
			d.RaceNumber = int(pd.RaceNumber)
			d.TelemetryName = trimCString(pd.Name[:])
			if unnamed && d.RaceNumber != 0 {
				m.resolveName(i)
			}
		}

		d.Pos = int(row.CarPosition)
		m.updateLapTiming(d, row)

		// Session's currentLap tracks whichever car has progressed
		// furthest (typically the leader), clamped to totalLaps and never
		// decreasing (spec.md §3 invariant) — independent of whether a
		// player car is even present (spectator mode).
		n := d.LapNr
		if m.Session.TotalLaps > 0 && n > m.Session.TotalLaps {
			n = m.Session.TotalLaps
		}
		if n > m.Session.CurrentLap {
			m.Session.CurrentLap = n
		}
	}

	// 3. Presence.
	for i := 0; i < m.CountDrivers; i++ {
		d := &m.Drivers[i]
		switch lap.Cars[i].ResultStatus {
		case 2, 3:
			d.Present = true
		default:
			d.Present = false
			d.TimedeltaToPlayer = 0
		}
	}

	// 4. Player identification. The game defaults playerCarIndex to 0
	// before real data arrives; once a real value lands we must be able
	// to revert slot 0's stale isPlayer flag.
	playerIdx := -1
	if hdr.PlayerCarIndex < model.MaxDrivers {
		playerIdx = int(hdr.PlayerCarIndex)
	}
	for i := range m.Drivers {
		m.Drivers[i].IsPlayer = i == playerIdx
	}
	if playerIdx >= 0 {
		m.Drivers[playerIdx].TimedeltaToPlayer = 0
	}

	// 5. Leader identification.
	leaderIdx := -1
	for i := range m.Drivers {
		if m.Drivers[i].Pos == 1 {
			leaderIdx = i
			break
		}
	}
	if leaderIdx >= 0 {
		m.Drivers[leaderIdx].TimedeltaToLeader = 0
	}

	// 6. Step 8: for every present driver only — deltas, telemetry,
	// tyre/damage, penalty seconds.
	for i := range m.Drivers {
		d := &m.Drivers[i]
		if !d.Present {
			continue
		}
		row := &lap.Cars[i]

		if playerIdx >= 0 && i != playerIdx {
			m.computeDelta(i, playerIdx, false)
		}
		if leaderIdx >= 0 && i != leaderIdx {
			m.computeDelta(i, leaderIdx, true)
		}

		if m.latestCarTelemetry != nil {
			applyCarTelemetry(d, &m.latestCarTelemetry.Cars[i])
		}
		if m.latestCarStatus != nil {
			applyCarStatus(d, &m.latestCarStatus.Cars[i])
		}

		if best := float64(row.BestLapTime); best != d.FastestLap.Lap {
			d.FastestLap.Lap = best
		}

		d.PenaltySeconds = int(row.Penalties)
	}

	// 7. Steps 9-11: status classification, the pit/penalty FSM, and
	// team — unlike step 8 these run for every driver regardless of
	// presence, since resultStatus values that classify as DSQ/DNF
	// (4-7) are themselves outside the {2,3} present set.
	for i := range m.Drivers {
		d := &m.Drivers[i]
		row := &lap.Cars[i]

		old := d.Status
		next := classifyStatus(row)
		if next == model.StatusPitting {
			d.HasPitted = true
		}
		d.Status = next
		m.pitPenaltyFSM(d, old, next)

		if m.latestParticipants != nil {
			pd := &m.latestParticipants.Participants[i]
			if pd.TeamID < 10 {
				d.Team = model.F1Team(pd.TeamID)
			} else {
				d.Team = model.TeamClassic
			}
		}
	}
}

// updateLapTiming is the core of C4 step 2: idempotent fill-once sector
// timing plus lap-rollover reconstruction (spec.md §4.4 point 4).
func (m *Model) updateLapTiming(d *model.Driver, row *packet.LapData) {
	currentLapNum := int(row.CurrentLapNum)
	if currentLapNum != d.LapNr {
		d.LapNr = currentLapNum
		d.TyreAge = d.LapNr - d.LapTiresFitted
		if idx := d.LapNr - 1; idx >= 0 && idx < model.MaxLaps {
			d.Laps[idx] = model.Lap{}
		}
		if prev := d.LapNr - 2; prev >= 0 && prev < model.MaxLaps {
			var base float64
			if d.LapNr > 2 {
				if older := prev - 1; older >= 0 {
					base = d.Laps[older].LapsAccumulated
				}
			}
			d.Laps[prev].Lap = float64(row.LastLapTime)
			d.Laps[prev].LapsAccumulated = d.Laps[prev].Lap + base
		}
	} else if idx := d.LapNr - 1; idx >= 0 && idx < model.MaxLaps {
		cur := &d.Laps[idx]
		if cur.Sector1 == 0 && row.Sector > 0 {
			cur.Sector1 = float64(row.Sector1TimeInMS) / 1000
		}
		if cur.Sector2 == 0 && row.Sector >= 2 {
			cur.Sector2 = float64(row.Sector2TimeInMS) / 1000
		}
	}
}

// classifyStatus is C4's status precedence rule: resultStatus first,
// pitStatus next, driverStatus last. Result status 7 is undocumented by
// the game but observed in the wild and, per spec.md §9, mapped to DNF.
func classifyStatus(row *packet.LapData) model.DriverStatus {
	switch row.ResultStatus {
	case 4:
		return model.StatusDSQ
	case 5, 6, 7:
		return model.StatusDNF
	}
	switch row.PitStatus {
	case 1:
		return model.StatusPitlane
	case 2:
		return model.StatusPitting
	}
	switch row.DriverStatus {
	case 0:
		return model.StatusGarage
	case 1, 2, 3, 4:
		return model.StatusOnTrack
	default:
		return model.StatusGarage
	}
}

func applyCarTelemetry(d *model.Driver, row *packet.CarTelemetryData) {
	w := &d.WearDetail
	w.TempFrontLeftOuter = float64(row.TyresSurfaceTemperature[0])
	w.TempFrontRightOuter = float64(row.TyresSurfaceTemperature[1])
	w.TempRearLeftOuter = float64(row.TyresSurfaceTemperature[2])
	w.TempRearRightOuter = float64(row.TyresSurfaceTemperature[3])
	w.TempFrontLeftInner = float64(row.TyresInnerTemperature[0])
	w.TempFrontRightInner = float64(row.TyresInnerTemperature[1])
	w.TempRearLeftInner = float64(row.TyresInnerTemperature[2])
	w.TempRearRightInner = float64(row.TyresInnerTemperature[3])
	w.TempBrakeFrontLeft = float64(row.BrakesTemperature[0])
	w.TempBrakeFrontRight = float64(row.BrakesTemperature[1])
	w.TempBrakeRearLeft = float64(row.BrakesTemperature[2])
	w.TempBrakeRearRight = float64(row.BrakesTemperature[3])
	w.TempEngine = float64(row.EngineTemperature)
}

// tyreDamageSaturation and carDamageSaturation are the fractions of raw
// summed damage at which the normalized value saturates to 1.0 (spec.md §3:
// tyreDamage/carDamage ∈ [0,1]).
const (
	tyreDamageSaturation = 0.75
	carDamageSaturation  = 0.5
)

func applyCarStatus(d *model.Driver, row *packet.CarStatusData) {
	w := &d.WearDetail
	w.WearFrontLeft = float64(row.TyresWear[0])
	w.WearFrontRight = float64(row.TyresWear[1])
	w.WearRearLeft = float64(row.TyresWear[2])
	w.WearRearRight = float64(row.TyresWear[3])
	w.DamageFrontLeft = float64(row.FrontLeftWingDamage)
	w.DamageFrontRight = float64(row.FrontRightWingDamage)

	tyre := float64(row.TyresDamage[0]+row.TyresDamage[1]+row.TyresDamage[2]+row.TyresDamage[3]) / 400
	d.TyreDamage = saturate(tyre, tyreDamageSaturation)

	car := float64(row.FrontLeftWingDamage+row.FrontRightWingDamage+row.RearWingDamage) / 300
	d.CarDamage = saturate(car, carDamageSaturation)

	d.Tyre = model.F1Tyre(row.ActualTyreCompound)
	d.VisualTyre = model.F1VisualTyre(row.VisualTyreCompound)
	if len(d.VisualTyres) == 0 && d.VisualTyre != model.VisualTyreUnknown {
		d.VisualTyres = append(d.VisualTyres, d.VisualTyre)
	}
}

// saturate maps [0,threshold] -> [0,1] linearly and clamps anything past
// threshold to 1, matching the game's own damage-bar presentation.
func saturate(v, threshold float64) float64 {
	if v >= threshold {
		return 1
	}
	return v * (1 / threshold)
}

// trimCString cuts a fixed-size, NUL-terminated byte array down to its
// Go string content.
func trimCString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
