package session

import "github.com/adjsw/f1telemetry/pkg/model"

// pitPenaltyFSM is C6: it infers tire changes and penalty-served
// transitions purely from the driver's old/new status, since the game
// never reports either event directly (spec.md §4.6).
func (m *Model) pitPenaltyFSM(d *model.Driver, oldStatus, newStatus model.DriverStatus) {
	if oldStatus == model.StatusPitting && newStatus != model.StatusPitting {
		d.VisualTyres = append(d.VisualTyres, d.VisualTyre)
	}

	if !(oldStatus == model.StatusPitlane && newStatus == model.StatusOnTrack) {
		return
	}

	if !d.HasPitted {
		markFirstUnserved(d.PitPenalties, func(e *model.SessionEvent) bool {
			return e.PenaltyType == model.PenaltyDriveThrough
		})
		return
	}

	d.LapTiresFitted = d.LapNr
	d.TyreAge = 0
	now := m.now()
	markFirstUnserved(d.PitPenalties, func(e *model.SessionEvent) bool {
		if e.PenaltyType == model.PenaltyDriveThrough {
			return false
		}
		if e.InfringementType == model.InfringementPitLaneSpeeding {
			return now.Sub(e.TimeCode) > m.PitSpeedingServeDelay
		}
		return true
	})
	d.HasPitted = false
}

// markFirstUnserved marks the first unserved event matching pred as
// served, in FIFO order, stopping after the first match (spec.md §4.6:
// "only the first matching unserved penalty is marked per transition").
func markFirstUnserved(events []*model.SessionEvent, pred func(*model.SessionEvent) bool) {
	for _, e := range events {
		if e.PenaltyServed {
			continue
		}
		if pred(e) {
			e.PenaltyServed = true
			return
		}
	}
}
