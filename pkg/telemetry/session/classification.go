package session

import (
	"github.com/adjsw/f1telemetry/pkg/model"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
)

// captureClassification is C8: a one-shot snapshot taken the first time a
// FinalClassification packet reports a non-zero car count. Model.Classification
// being non-nil is this system's no-repeat sentinel — the Go equivalent of
// the original's "zero numCars after capture" trick from spec.md §4.8,
// moved off the ephemeral packet struct (which the decoder does not let us
// retain) and onto persistent model state, per the spec.md §9 redesign note
// preferring an explicit flag over a reused-buffer sentinel.
func (m *Model) captureClassification(pkt *packet.FinalClassificationPacket) {
	if pkt.NumCars == 0 || m.Classification != nil {
		return
	}

	entries := make([]model.ClassificationEntry, pkt.NumCars)
	for i := 0; i < int(pkt.NumCars); i++ {
		row := &pkt.Classification[i]
		entries[i] = model.ClassificationEntry{
			Driver:        &m.Drivers[i],
			BestLapTime:   float64(row.BestLapTime),
			TotalRaceTime: row.TotalRaceTime,
			GridPosition:  int(row.GridPosition),
			NumLaps:       int(row.NumLaps),
			NumPenalties:  int(row.NumPenalties),
			PenaltiesTime: int(row.PenaltiesTime),
			Points:        int(row.Points),
			Position:      int(row.Position),
		}
	}
	m.Classification = entries
}
