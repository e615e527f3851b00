package session

import "fmt"

var teamNames = [...]string{
	"Mercedes", "Ferrari", "Red Bull", "Williams", "Racing Point",
	"Renault", "Alpha Tauri", "Haas", "McLaren", "Alfa Romeo",
}

// resolveName is C7: mapping override ▸ telemetry name ▸ team+number
// fallback, per spec.md §4.7. The two mapping passes never interleave —
// every team-qualified mapping is checked before any number-only one.
func (m *Model) resolveName(idx int) {
	d := &m.Drivers[idx]

	for _, mp := range m.NameMappings.Mappings {
		if mp.DriverNumber == d.RaceNumber && mp.Team != nil && *mp.Team == d.Team {
			d.MappedName, d.Name = mp.Name, mp.Name
			return
		}
	}
	for _, mp := range m.NameMappings.Mappings {
		if mp.DriverNumber == d.RaceNumber && mp.Team == nil {
			d.MappedName, d.Name = mp.Name, mp.Name
			return
		}
	}

	driverID := 255
	if m.latestParticipants != nil {
		driverID = int(m.latestParticipants.Participants[idx].DriverID)
	}
	if driverID < 100 && d.TelemetryName != "" {
		d.Name = d.TelemetryName
		return
	}

	if int(d.Team) < len(teamNames) {
		d.Name = fmt.Sprintf("%s (%d)", teamNames[d.Team], d.RaceNumber)
		return
	}
	d.Name = "Car"
}

// RefreshNames recomputes every driver's display name. Call after
// changing NameMappings at runtime (spec.md §4.7: "when mappings are
// changed at runtime, all driver names are recomputed").
func (m *Model) RefreshNames() {
	for i := 0; i < m.CountDrivers; i++ {
		if m.Drivers[i].RaceNumber != 0 {
			m.resolveName(i)
		}
	}
}
