// Package acquire runs the caller side of the measurement model: it triggers
// one conversion per tick while holding the bus, decides what to do with
// failures, and hands each reading to a record sink.
package acquire

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"primbox-go/drivers/ads1x15"
	"primbox-go/errcode"
	"primbox-go/services/record"
	"primbox-go/x/mathx"
	"primbox-go/x/timex"
)

// ErrTooManyFailures ends a run after MaxConsecutiveErrors transient failures.
var ErrTooManyFailures = errors.New("acquire: too many consecutive failures")

// Meter is the measurement surface of a driver (ads1x15.Device).
type Meter interface {
	Read(ctx context.Context, ch ads1x15.Channel) (ads1x15.Reading, error)
}

// Bus brackets one measurement with exclusive bus access (i2cx.Shared).
type Bus interface {
	Do(ctx context.Context, fn func() error) error
	TryDo(fn func() error) (bool, error)
}

// Config controls one acquisition run. Zero values select defaults.
type Config struct {
	Channel ads1x15.Channel
	// Interval between measurements. Default 100 ms.
	Interval time.Duration
	// Count stops the run after this many readings. 0 runs until ctx ends.
	Count uint64
	// Window is the number of recent values kept for Summary. Default 64,
	// bounded to [2, 4096].
	Window int
	// MaxConsecutiveErrors ends the run after that many back-to-back
	// timeouts or bus errors. 0 never gives up.
	MaxConsecutiveErrors int
	// SkipBusy skips a tick instead of waiting when another actor holds
	// the bus.
	SkipBusy bool
}

// Summary describes a run: totals plus statistics over the last Window values.
type Summary struct {
	RunID    string
	Readings uint64
	Failures uint64
	Skipped  uint64 // ticks lost to a busy bus
	Window   int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

type Service struct {
	cfg  Config
	bus  Bus
	dev  Meter
	sink record.Sink
	log  *zap.Logger

	runID  string
	window []float64
	next   int
}

func New(cfg Config, bus Bus, dev Meter, sink record.Sink, log *zap.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if cfg.Window == 0 {
		cfg.Window = 64
	}
	cfg.Window = mathx.Clamp(cfg.Window, 2, 4096)
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		bus:    bus,
		dev:    dev,
		sink:   sink,
		log:    log,
		runID:  uuid.NewString(),
		window: make([]float64, 0, cfg.Window),
	}
}

// RunID identifies this run in records and logs.
func (s *Service) RunID() string { return s.runID }

// Run measures until Count readings are taken, ctx ends, or a non-transient
// error occurs. Timeouts and bus errors are logged and retried on the next
// tick; configuration errors (invalid channel, bad calibration, missing
// device) end the run. Cancellation is a normal stop.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	log := s.log.With(zap.String("run_id", s.runID), zap.Int("channel", int(s.cfg.Channel)))
	log.Info("acquisition started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Uint64("count", s.cfg.Count))

	tick := time.NewTicker(s.cfg.Interval)
	defer tick.Stop()

	var (
		sum     = Summary{RunID: s.runID}
		start   = time.Now()
		startMs = timex.NowMs()
		streak  int
	)
	for {
		r, err := s.measure(ctx)
		switch code := errcode.MapDriverErr(err); code {
		case errcode.OK:
			streak = 0
			now := time.Now()
			rec := record.Record{
				RunID:   s.runID,
				Frame:   sum.Readings,
				Seconds: now.Sub(start).Seconds(),
				Channel: int(r.Channel),
				Raw:     r.Raw,
				Value:   r.Value,
				Time:    now,
			}
			// A completed conversion is recorded even if ctx ended meanwhile.
			if err := s.sink.Write(context.WithoutCancel(ctx), rec); err != nil {
				if ctx.Err() != nil {
					return s.stop(log, sum, startMs)
				}
				log.Error("record write failed", zap.Error(err))
				return s.summarise(sum), errcode.Wrap("acquire: record", err)
			}
			sum.Readings++
			s.push(r.Value)
			log.Debug("reading", zap.Uint64("frame", rec.Frame), zap.Int16("raw", r.Raw), zap.Float64("value", r.Value))
		case errcode.Timeout, errcode.IOError:
			if ctx.Err() != nil {
				return s.stop(log, sum, startMs)
			}
			sum.Failures++
			streak++
			log.Warn("measurement failed", zap.String("code", string(code)), zap.Int("streak", streak), zap.Error(err))
			if s.cfg.MaxConsecutiveErrors > 0 && streak >= s.cfg.MaxConsecutiveErrors {
				return s.summarise(sum), errors.Join(ErrTooManyFailures, err)
			}
		case errcode.Busy:
			sum.Skipped++
			log.Debug("bus busy, tick skipped")
		case errcode.Cancelled:
			return s.stop(log, sum, startMs)
		default:
			log.Error("measurement aborted", zap.String("code", string(code)), zap.Error(err))
			return s.summarise(sum), errcode.Wrap("acquire: measure", err)
		}

		if s.cfg.Count > 0 && sum.Readings >= s.cfg.Count {
			return s.stop(log, sum, startMs)
		}
		select {
		case <-ctx.Done():
			return s.stop(log, sum, startMs)
		case <-tick.C:
		}
	}
}

func (s *Service) measure(ctx context.Context) (ads1x15.Reading, error) {
	var r ads1x15.Reading
	read := func() error {
		var err error
		r, err = s.dev.Read(ctx, s.cfg.Channel)
		return err
	}
	if !s.cfg.SkipBusy {
		return r, s.bus.Do(ctx, read)
	}
	if err := ctx.Err(); err != nil {
		return r, err
	}
	ran, err := s.bus.TryDo(read)
	if !ran {
		return r, errcode.Busy
	}
	return r, err
}

func (s *Service) stop(log *zap.Logger, sum Summary, startMs int64) (Summary, error) {
	out := s.summarise(sum)
	log.Info("acquisition stopped",
		zap.Uint64("readings", out.Readings),
		zap.Uint64("failures", out.Failures),
		zap.Uint64("skipped", out.Skipped),
		zap.Int64("elapsed_ms", timex.NowMs()-startMs),
		zap.Float64("mean", out.Mean),
		zap.Float64("stddev", out.StdDev))
	return out, nil
}

// push keeps the last cfg.Window values.
func (s *Service) push(v float64) {
	if len(s.window) < s.cfg.Window {
		s.window = append(s.window, v)
		return
	}
	s.window[s.next] = v
	s.next = (s.next + 1) % s.cfg.Window
}

func (s *Service) summarise(sum Summary) Summary {
	sum.Window = len(s.window)
	if sum.Window == 0 {
		return sum
	}
	sum.Min = floats.Min(s.window)
	sum.Max = floats.Max(s.window)
	if sum.Window == 1 {
		sum.Mean = s.window[0]
		return sum
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(s.window, nil)
	return sum
}
