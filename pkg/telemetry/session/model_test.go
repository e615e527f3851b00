package session

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjsw/f1telemetry/pkg/model"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
)

func encode(t *testing.T, hdr packet.Header, body any) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hdr))
	if body != nil {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, body))
	}
	return buf.Bytes()
}

func newTestModel(t *testing.T, now *time.Time) *Model {
	t.Helper()
	m := NewModel(WithClock(func() time.Time { return *now }))
	t.Cleanup(m.Close)
	return m
}

// S1 — session start.
func TestSessionStart(t *testing.T) {
	now := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)
	m := newTestModel(t, &now)

	require.True(t, m.Ingest(encode(t, packet.Header{PacketID: packet.IDEvent},
		packet.EventPacket{EventStringCode: [4]byte{'S', 'S', 'T', 'A'}})))

	require.True(t, m.Ingest(encode(t, packet.Header{PacketID: packet.IDSession},
		packet.SessionPacket{TrackID: int8(model.TrackAustria), SessionTypeID: uint8(model.SessionRace), TotalLaps: 10})))

	require.Len(t, m.Events, 1)
	assert.Equal(t, model.EventSessionStarted, m.Events[0].Type)
	assert.Equal(t, model.TrackAustria, m.Session.Track)
	assert.Equal(t, model.SessionRace, m.Session.Session)
	assert.Equal(t, 10, m.Session.TotalLaps)
	assert.Equal(t, 1, m.Session.CurrentLap)
	assert.False(t, m.Session.SessionFinished)
}

// S2 — first lap completion for car 0.
func TestLapRolloverReconstruction(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 1}))

	lap1 := packet.LapDataPacket{}
	lap1.Cars[0] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap1))

	lap2 := packet.LapDataPacket{}
	lap2.Cars[0] = packet.LapData{CurrentLapNum: 2, LastLapTime: 95.432, ResultStatus: 2}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap2))

	d := m.Drivers[0]
	assert.InDelta(t, 95.432, d.Laps[0].Lap, 1e-6)
	assert.InDelta(t, 95.432, d.Laps[0].LapsAccumulated, 1e-6)
	assert.Equal(t, 2, d.LapNr)
	assert.Zero(t, d.Laps[1].Sector1)
	assert.Zero(t, d.Laps[1].Sector2)
	assert.Zero(t, d.Laps[1].Lap)
}

// S3 — qualifying delta.
func TestQualifyingDelta(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Session.Session = model.SessionQ1
	m.Drivers[0].FastestLap.Lap = 85.100
	m.Drivers[1].FastestLap.Lap = 85.950

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 2}))

	lap := packet.LapDataPacket{}
	lap.Cars[0] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2, CarPosition: 1, BestLapTime: 85.100}
	lap.Cars[1] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2, CarPosition: 2, BestLapTime: 85.950}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap))

	assert.InDelta(t, 0.850, m.Drivers[1].TimedeltaToPlayer, 1e-9)
}

// S4 — race delta with a player-side penalty.
func TestRaceDeltaWithPenalty(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Session.Session = model.SessionRace

	m.Drivers[0].LapNr = 3
	m.Drivers[0].Laps[2].Lap = 300.0
	m.Drivers[1].LapNr = 3
	m.Drivers[1].Laps[2].Lap = 302.5

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 2}))

	lap := packet.LapDataPacket{}
	lap.Cars[0] = packet.LapData{CurrentLapNum: 3, ResultStatus: 2, CarPosition: 1, Penalties: 5}
	lap.Cars[1] = packet.LapData{CurrentLapNum: 3, ResultStatus: 2, CarPosition: 2, Penalties: 0}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap))

	assert.InDelta(t, 2.5, m.Drivers[1].TimedeltaToPlayer, 1e-9)
}

// S5 — pit stop tire change. The per-frame pit status sequence a real
// session reports is Pitlane -> Pitting -> Pitlane -> OnTrack (the car is
// still physically in the pit lane for one more frame after leaving the
// box), not a direct Pitting -> OnTrack jump; see pitfsm.go.
func TestPitStopTireChange(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 1}))

	cycle := func(pitStatus, driverStatus uint8, visualTyre uint8) {
		m.Ingest(encode(t, packet.Header{PacketID: packet.IDCarStatus}, packet.CarStatusPacket{
			Cars: [model.MaxDrivers]packet.CarStatusData{0: {VisualTyreCompound: visualTyre}},
		}))
		lap := packet.LapDataPacket{}
		lap.Cars[0] = packet.LapData{CurrentLapNum: 3, ResultStatus: 2, PitStatus: pitStatus, DriverStatus: driverStatus}
		m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap))
	}

	cycle(1, 1, uint8(model.VisualTyreSoft))   // Pitlane, Soft
	cycle(2, 1, uint8(model.VisualTyreMedium)) // Pitting, switch to Medium
	cycle(1, 1, uint8(model.VisualTyreMedium)) // back in Pitlane after the stop
	cycle(0, 1, uint8(model.VisualTyreMedium)) // OnTrack

	d := m.Drivers[0]
	require.Len(t, d.VisualTyres, 2)
	assert.Equal(t, model.VisualTyreSoft, d.VisualTyres[0])
	assert.Equal(t, model.VisualTyreMedium, d.VisualTyres[1])
	assert.Equal(t, d.LapNr, d.LapTiresFitted)
	assert.Zero(t, d.TyreAge)
}

// S6 — drive-through served.
func TestDriveThroughServed(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 4}))

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDEvent}, packet.EventPacket{
		EventStringCode: [4]byte{'P', 'E', 'N', 'A'},
		Details:         packet.EventDetails{VehicleIdx: 3, PenaltyType: uint8(model.PenaltyDriveThrough)},
	}))

	lap1 := packet.LapDataPacket{}
	lap1.Cars[3] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2, PitStatus: 1, DriverStatus: 1}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap1))

	lap2 := packet.LapDataPacket{}
	lap2.Cars[3] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2, PitStatus: 0, DriverStatus: 1}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap2))

	d := m.Drivers[3]
	require.Len(t, d.PitPenalties, 1)
	assert.True(t, d.PitPenalties[0].PenaltyServed)
	assert.Empty(t, d.VisualTyres)
}

func TestEventReprocessingIsIdempotent(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)

	buf := encode(t, packet.Header{PacketID: packet.IDEvent, FrameIdentifier: 7},
		packet.EventPacket{EventStringCode: [4]byte{'C', 'H', 'Q', 'F'}})

	m.Ingest(buf)
	m.Ingest(buf)

	assert.Len(t, m.Events, 1)
}

func TestSSTAResetsModel(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Session.CurrentLap = 7
	m.Session.SessionFinished = true
	m.Drivers[0].Present = true
	m.CountDrivers = 5

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDEvent}, packet.EventPacket{EventStringCode: [4]byte{'S', 'S', 'T', 'A'}}))

	assert.Equal(t, 1, m.Session.CurrentLap)
	assert.False(t, m.Session.SessionFinished)
	assert.False(t, m.Drivers[0].Present)
	assert.Equal(t, 0, m.CountDrivers)
}

// Boundary: lapNum = 0 on a penalty routes to laps[0].incidents.
func TestPenaltyLapZeroRoutesToFirstLap(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 1}))

	m.Ingest(encode(t, packet.Header{PacketID: packet.IDEvent}, packet.EventPacket{
		EventStringCode: [4]byte{'P', 'E', 'N', 'A'},
		Details:         packet.EventDetails{VehicleIdx: 0, LapNum: 0},
	}))

	require.Len(t, m.Drivers[0].Laps[0].Incidents, 1)
}

// Boundary: playerCarIndex = 255 leaves every isPlayer flag false.
func TestSpectatorModeLeavesNoPlayer(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 2}))

	lap := packet.LapDataPacket{}
	lap.Cars[0] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2}
	lap.Cars[1] = packet.LapData{CurrentLapNum: 1, ResultStatus: 2}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 255}, lap))

	for i := range m.Drivers {
		assert.False(t, m.Drivers[i].IsPlayer)
	}
}

// Boundary: result status 7 maps to DNF.
func TestResultStatusSevenIsDNF(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 1}))

	lap := packet.LapDataPacket{}
	lap.Cars[0] = packet.LapData{CurrentLapNum: 1, ResultStatus: 7}
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap))

	assert.Equal(t, model.StatusDNF, m.Drivers[0].Status)
}

func TestTyreAgeInvariantHoldsAfterRollover(t *testing.T) {
	now := time.Now()
	m := newTestModel(t, &now)
	m.Ingest(encode(t, packet.Header{PacketID: packet.IDParticipants}, packet.ParticipantsPacket{NumActiveCars: 1}))

	for lapNum := uint8(1); lapNum <= 4; lapNum++ {
		lap := packet.LapDataPacket{}
		lap.Cars[0] = packet.LapData{CurrentLapNum: lapNum, ResultStatus: 2, LastLapTime: 90}
		m.Ingest(encode(t, packet.Header{PacketID: packet.IDLapData, PlayerCarIndex: 0}, lap))
		d := m.Drivers[0]
		assert.Equal(t, d.LapNr-d.LapTiresFitted, d.TyreAge)
	}
}
