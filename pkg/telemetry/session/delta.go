package session

import "github.com/adjsw/f1telemetry/pkg/model"

// computeDelta is C5, invoked twice per present driver in C4 step 8: once
// with the player as anchor (producing TimedeltaToPlayer) and once with
// the session leader as anchor (producing TimedeltaToLeader, negated so a
// trailing car reports a positive "distance back").
//
// subjectIdx is the driver whose field is being set; anchorIdx is the
// player or the leader.
func (m *Model) computeDelta(subjectIdx, anchorIdx int, isLeader bool) {
	subject := &m.Drivers[subjectIdx]
	anchor := &m.Drivers[anchorIdx]

	var delta float64
	ok := true
	if m.Session.Session.IsQualifying() {
		delta = subject.FastestLap.Lap - anchor.FastestLap.Lap
	} else {
		delta, ok = raceDelta(anchor, subject, isLeader)
	}
	if !ok {
		return
	}

	if isLeader {
		subject.TimedeltaToLeader = delta
		return
	}
	if subject.TimedeltaToPlayer != delta {
		subject.LastTimedeltaToPlayer = subject.TimedeltaToPlayer
	}
	subject.TimedeltaToPlayer = delta
}

// raceDelta walks backward from the reference (anchor) car's current
// lap/sector boundary to find the most advanced boundary both cars have
// crossed, per spec.md §4.5.
func raceDelta(reference, opponent *model.Driver, isLeaderVariant bool) (float64, bool) {
	lapIdx := reference.LapNr - 1
	if o := opponent.LapNr - 1; o < lapIdx {
		lapIdx = o
	}
	if lapIdx < 0 {
		return 0, false
	}

	sector := 2
	for {
		if hasSector(sector, reference, lapIdx) && hasSector(sector, opponent, lapIdx) {
			break
		}
		if sector > 0 {
			sector--
			continue
		}
		if lapIdx == 0 {
			return 0, false
		}
		lapIdx--
		sector = 2
	}

	timeRef := accumulated(reference, lapIdx, sector)
	timeOpp := accumulated(opponent, lapIdx, sector)

	if isLeaderVariant {
		return timeOpp - timeRef, true
	}
	// reference.PenaltySeconds folds into timeRef before the subtraction
	// here, producing spec.md's worked example ((300.0+5) − 302.5 − 0 =
	// +2.5). See DESIGN.md for why this differs from the penalty handling
	// in the original source this was distilled from.
	timeRef += float64(reference.PenaltySeconds)
	return timeRef - timeOpp - float64(opponent.PenaltySeconds), true
}

// hasSector reports whether sector's own boundary time has individually
// arrived for this lap — distinct from partial's cumulative value, since
// e.g. sector 1 (the Sector1+Sector2 boundary) must not be considered
// crossed merely because Sector1 alone is non-zero.
func hasSector(sector int, d *model.Driver, lapIdx int) bool {
	lap := d.Laps[lapIdx]
	switch sector {
	case 0:
		return lap.Sector1 != 0
	case 1:
		return lap.Sector2 != 0
	default:
		return lap.Lap != 0
	}
}

func partial(sector int, d *model.Driver, lapIdx int) float64 {
	lap := d.Laps[lapIdx]
	switch sector {
	case 0:
		return lap.Sector1
	case 1:
		return lap.Sector1 + lap.Sector2
	default:
		return lap.Lap
	}
}

func accumulated(d *model.Driver, lapIdx, sector int) float64 {
	var base float64
	if lapIdx > 0 {
		base = d.Laps[lapIdx-1].LapsAccumulated
	}
	return base + partial(sector, d, lapIdx)
}
