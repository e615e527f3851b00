package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/adjsw/f1telemetry/log"
	"github.com/adjsw/f1telemetry/pkg/model"
)

//nolint:lll // by design
// see https://betterprogramming.pub/how-to-broadcast-messages-in-go-using-channels-b68f42bdf32e

// defaultCoalesceWindow bounds how long repeated notices for the same
// field/car land in the same outgoing batch. A single Ingest cycle can
// call notify() for "drivers" on every LapData packet; a listener polling
// the model on its own schedule only ever cares about the latest value per
// field, so same-key notices arriving within the window collapse to one.
const defaultCoalesceWindow = 20 * time.Millisecond

// Server fans out model.ChangeNotice values to any number of subscribers,
// coalescing same-key notices that arrive within a short window so a slow
// listener sees one update per field per window instead of one per packet.
type Server interface {
	Subscribe() <-chan model.ChangeNotice
	CancelSubscription(<-chan model.ChangeNotice)
	Close()
}

type changeKey struct {
	field    string
	carIndex int
}

type server struct {
	name           string
	source         <-chan model.ChangeNotice
	listeners      []chan model.ChangeNotice
	addListener    chan chan model.ChangeNotice
	removeListener chan (<-chan model.ChangeNotice)
	ctx            context.Context
	cancel         context.CancelFunc
	coalesceWindow time.Duration

	numRcv       int
	numSnd       int
	numSkip      int
	numCoalesced int
}

type Option func(*server)

// WithCoalesceWindow overrides the default same-key coalescing window.
func WithCoalesceWindow(d time.Duration) Option {
	return func(s *server) {
		s.coalesceWindow = d
	}
}

func (s *server) Subscribe() <-chan model.ChangeNotice {
	ch := make(chan model.ChangeNotice)
	s.addListener <- ch
	return ch
}

func (s *server) CancelSubscription(ch <-chan model.ChangeNotice) {
	s.removeListener <- ch
}

func (s *server) Close() {
	log.Info("Closing broadcast server",
		log.String("name", s.name),
		log.Int("rcv", s.numRcv), log.Int("snd", s.numSnd),
		log.Int("skip", s.numSkip), log.Int("coalesced", s.numCoalesced))
	s.cancel()
}

// NewServer starts a change-notice fan-out reading from source. Grounded on
// the teacher's generic BroadcastServer[T], specialized to
// model.ChangeNotice and given a coalescing stage the teacher's version
// never needed (its messages were already application-level events, not a
// per-field stream that fires many times per processing cycle).
func NewServer(name string, source <-chan model.ChangeNotice, opts ...Option) Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &server{
		name:           name,
		source:         source,
		addListener:    make(chan chan model.ChangeNotice),
		removeListener: make(chan (<-chan model.ChangeNotice)),
		ctx:            ctx,
		cancel:         cancel,
		coalesceWindow: defaultCoalesceWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMetrics()
	go s.serve()
	return s
}

//nolint:lll,funlen // readability
func (s *server) setupMetrics() {
	meter := otel.GetMeterProvider().Meter(fmt.Sprintf("f1telemetry.broadcast.%s", s.name))
	register := func(metricName, desc, unit string, valueProvider func() int64) {
		if _, err := meter.Int64ObservableGauge(
			metricName,
			metric.WithDescription(desc),
			metric.WithUnit(unit),

			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(valueProvider(),
					metric.WithAttributes(
						attribute.String("name", s.name),
					),
				)
				return nil
			})); err != nil {
			log.Error("failed to register metric",
				log.String("metric", metricName),
				log.ErrorField(err))
		}
	}
	type data struct {
		name  string
		desc  string
		unit  string
		value func() int64
	}
	for _, d := range []*data{
		{
			"f1telemetry.broadcast.rcv", "Number of received change notices", "{count}",
			func() int64 { return int64(s.numRcv) },
		},
		{
			"f1telemetry.broadcast.snd", "Number of change notices delivered to listeners", "{count}",
			func() int64 { return int64(s.numSnd) },
		},
		{
			"f1telemetry.broadcast.skip", "Number of change notices dropped by a slow listener", "{count}",
			func() int64 { return int64(s.numSkip) },
		},
		{
			"f1telemetry.broadcast.coalesced", "Number of same-key notices merged before delivery", "{count}",
			func() int64 { return int64(s.numCoalesced) },
		},
		{
			"f1telemetry.broadcast.listener", "Number of listeners", "{count}",
			func() int64 { return int64(len(s.listeners)) },
		},
	} {
		register(d.name, d.desc, d.unit, d.value)
	}
}

//nolint:funlen,cyclop,gocognit // by design
func (s *server) serve() {
	defer func() {
		log.Info("Closing listeners", log.String("name", s.name))
		for _, listener := range s.listeners {
			if listener != nil {
				close(listener)
			}
		}
	}()

	m := sync.Mutex{}
	pending := make(map[changeKey]model.ChangeNotice)
	var order []changeKey

	ticker := time.NewTicker(s.coalesceWindow)
	defer ticker.Stop()

	flush := func() {
		if len(order) == 0 {
			return
		}
		m.Lock()
		defer m.Unlock()
		for _, key := range order {
			msg := pending[key]
			for _, listener := range s.listeners {
				select {
				case listener <- msg:
					s.numSnd++
				case <-time.After(50 * time.Millisecond):
					s.numSkip++
				}
			}
		}
		pending = make(map[changeKey]model.ChangeNotice)
		order = order[:0]
	}

	for {
		select {
		case <-s.ctx.Done():
			log.Info("broadcast server about to be closed", log.String("name", s.name))
			flush()
			return
		case ch := <-s.addListener:
			s.listeners = append(s.listeners, ch)
		case ch := <-s.removeListener:
			m.Lock()
			for i, listener := range s.listeners {
				if listener == ch {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					close(listener)
					break
				}
			}
			m.Unlock()
		case msg := <-s.source:
			m.Lock()
			s.numRcv++
			key := changeKey{field: msg.Field, carIndex: msg.CarIndex}
			if _, exists := pending[key]; !exists {
				order = append(order, key)
			} else {
				s.numCoalesced++
			}
			pending[key] = msg
			m.Unlock()
		case <-ticker.C:
			flush()
		}
	}
}
