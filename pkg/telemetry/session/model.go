// Package session implements C2 (SessionModel) and the components that
// mutate it: EventInterpreter (C3), DriverUpdater (C4), DeltaEngine (C5),
// PitPenaltyFSM (C6), NameResolver (C7) and ClassificationCapture (C8).
//
// Model is the single per-process instance described by spec.md §3/§5:
// one goroutine owns it, a datagram is fully applied before the next is
// read, and observers either run on that same goroutine after Ingest
// returns or subscribe to the best-effort change feed.
package session

import (
	"time"

	"github.com/adjsw/f1telemetry/pkg/model"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
	"github.com/adjsw/f1telemetry/pkg/utils/broadcast"
)

// DefaultPitSpeedingServeDelay is the heuristic minimum dwell time before a
// pit-lane-speeding penalty is considered served (spec.md §9 open question:
// exposed as configuration rather than a hard constant).
const DefaultPitSpeedingServeDelay = 60 * time.Second

// Model is the observable session snapshot (C2) plus the private state the
// other components need between packet cycles: the most recently seen
// Participants/CarTelemetry/CarStatus bodies, which arrive on their own
// cadence and are read by DriverUpdater whenever a LapData packet (the
// per-cycle heartbeat) triggers a refresh.
type Model struct {
	Session        model.SessionInfo
	Drivers        [model.MaxDrivers]model.Driver
	Events         []*model.SessionEvent
	Classification []model.ClassificationEntry
	CountDrivers   int

	NameMappings          model.DriverNameMappings
	PitSpeedingServeDelay time.Duration

	clock func() time.Time

	latestParticipants *packet.ParticipantsPacket
	latestCarTelemetry *packet.CarTelemetryPacket
	latestCarStatus    *packet.CarStatusPacket
	lastEvent          eventFingerprint

	changesSource chan model.ChangeNotice
	changes       broadcast.Server
}

// Option configures a Model at construction time.
type Option func(*Model)

// WithNameMappings seeds the initial driver-name override table.
func WithNameMappings(nm model.DriverNameMappings) Option {
	return func(m *Model) { m.NameMappings = nm }
}

// WithPitSpeedingServeDelay overrides DefaultPitSpeedingServeDelay.
func WithPitSpeedingServeDelay(d time.Duration) Option {
	return func(m *Model) { m.PitSpeedingServeDelay = d }
}

// WithClock overrides the source of "now" used for event timestamps and
// the pit-lane-speeding delay; tests use this to control elapsed time.
func WithClock(fn func() time.Time) Option {
	return func(m *Model) { m.clock = fn }
}

// NewModel constructs a Model ready to Ingest. The change-notification
// broadcast server is always started; nothing needs to Subscribe for the
// core to function (spec.md §9: property-change notification is a UI
// concern, not a required one).
func NewModel(opts ...Option) *Model {
	m := &Model{
		PitSpeedingServeDelay: DefaultPitSpeedingServeDelay,
		clock:                 time.Now,
		changesSource:         make(chan model.ChangeNotice),
	}
	m.Session.CurrentLap = 1
	for _, opt := range opts {
		opt(m)
	}
	m.changes = broadcast.NewServer("session", m.changesSource)
	return m
}

func (m *Model) now() time.Time { return m.clock() }

// Reset returns the model to its post-construction state, per spec.md §3:
// triggered by a SessionStarted (SSTA) event.
func (m *Model) Reset() {
	m.Session.Reset()
	for i := range m.Drivers {
		m.Drivers[i].Reset()
	}
	m.Events = nil
	m.Classification = nil
	m.CountDrivers = 0
	m.latestParticipants = nil
	m.latestCarTelemetry = nil
	m.latestCarStatus = nil
}

// Close releases the background change-broadcast goroutine. Call once the
// model is no longer in use.
func (m *Model) Close() {
	m.changes.Close()
}

// Subscribe returns a channel of best-effort change notifications. A slow
// reader misses updates rather than blocking Ingest (see pkg/utils/broadcast).
func (m *Model) Subscribe() <-chan model.ChangeNotice {
	return m.changes.Subscribe()
}

// CancelSubscription releases a channel returned by Subscribe.
func (m *Model) CancelSubscription(ch <-chan model.ChangeNotice) {
	m.changes.CancelSubscription(ch)
}

func (m *Model) notify(field string, carIdx int) {
	select {
	case m.changesSource <- model.ChangeNotice{Field: field, CarIndex: carIdx}:
	case <-time.After(10 * time.Millisecond):
		// Nobody draining the broadcast server right now; dropping a
		// notification never blocks the ingest hot path.
	}
}

// Ingest decodes buf (one UDP datagram) and applies every packet found in
// it to the model, in order. It returns false — without mutating the
// model — on TransportTransient-style failures: oversize or malformed
// input (spec.md §7). A false return means "try the next datagram"; it is
// never fatal.
func (m *Model) Ingest(buf []byte) bool {
	packets, err := packet.DecodeAll(buf)
	if err != nil {
		return false
	}
	for _, pkt := range packets {
		m.apply(pkt)
	}
	return true
}

func (m *Model) apply(pkt *packet.Packet) {
	switch {
	case pkt.Event != nil:
		m.interpretEvent(pkt.Header, pkt.Event)
		m.notify("event", int(pkt.Event.Details.VehicleIdx))
	case pkt.Session != nil:
		m.applySession(pkt.Session)
		m.notify("session", -1)
	case pkt.Participants != nil:
		m.latestParticipants = pkt.Participants
	case pkt.CarTelemetry != nil:
		m.latestCarTelemetry = pkt.CarTelemetry
	case pkt.CarStatus != nil:
		m.latestCarStatus = pkt.CarStatus
	case pkt.LapData != nil:
		m.updateDrivers(pkt.LapData, pkt.Header)
		m.notify("drivers", -1)
	case pkt.FinalClassification != nil:
		m.captureClassification(pkt.FinalClassification)
		m.notify("classification", -1)
	}
}

func (m *Model) applySession(s *packet.SessionPacket) {
	m.Session.Track = model.Track(s.TrackID)
	m.Session.Session = model.SessionType(s.SessionTypeID)
	m.Session.TotalLaps = int(s.TotalLaps)
	m.Session.RemainingTime = int(s.SessionTimeLeft)
}
