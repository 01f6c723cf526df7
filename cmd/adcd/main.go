// Command adcd samples one ADS1x15 channel on a host I2C bus and streams
// "frame,seconds,value" lines to stdout or a serial port, optionally
// recording every reading to SQLite.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"primbox-go/drivers/ads1x15"
	"primbox-go/errcode"
	"primbox-go/i2cx"
	"primbox-go/services/acquire"
	"primbox-go/services/config"
	"primbox-go/services/record"
	"primbox-go/x/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	s, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "adcd:", err)
		return 2
	}
	log, err := logx.New("adcd", s.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "adcd:", err)
		return 2
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := acquireRun(ctx, s, log); err != nil {
		log.Error("run failed",
			zap.String("code", string(errcode.Of(err))),
			zap.Error(err))
		return 1
	}
	return 0
}

func acquireRun(ctx context.Context, s config.Settings, log *zap.Logger) error {
	host, err := i2cx.OpenHost(s.Bus, s.BusHz)
	if err != nil {
		return errcode.Wrap("open_bus", err)
	}
	defer host.Close()

	shared := i2cx.NewShared(host)
	dev, err := ads1x15.New(shared, s.Device)
	if err != nil {
		return errcode.Wrap("new_device", err)
	}
	if err := shared.Do(ctx, dev.Probe); err != nil {
		return errcode.Wrap("probe", err)
	}
	log.Info("device ready",
		zap.String("bus", host.String()),
		zap.Uint16("addr", dev.Address()),
		zap.Stringer("variant", dev.Variant()),
		zap.Float64("fsr", dev.Gain().FullScale()),
		zap.Int("sps", dev.Variant().SPS(dev.DataRate())),
		zap.Bool("volts", s.Volts))

	var sinks record.Multi
	switch s.Out {
	case "":
	case "-":
		sinks = append(sinks, record.NewLineWriter(os.Stdout))
	default:
		port, err := record.OpenSerial(s.Out, s.Baud)
		if err != nil {
			return errcode.Wrap("open_serial", err)
		}
		defer closeLogged(log, "serial", port)
		sinks = append(sinks, record.NewLineWriter(port))
	}
	if s.DB != "" {
		store, err := record.OpenStore(s.DB)
		if err != nil {
			return errcode.Wrap("open_store", err)
		}
		defer closeLogged(log, "store", store)
		sinks = append(sinks, store)
	}

	svc := acquire.New(acquire.Config{
		Channel:              s.Channel,
		Interval:             s.Interval,
		Count:                s.Count,
		Window:               s.Window,
		MaxConsecutiveErrors: s.MaxErrs,
		SkipBusy:             s.SkipBusy,
	}, shared, dev, sinks, log)

	sum, err := svc.Run(ctx)
	log.Info("summary",
		zap.String("run_id", sum.RunID),
		zap.Uint64("readings", sum.Readings),
		zap.Uint64("failures", sum.Failures),
		zap.Uint64("skipped", sum.Skipped),
		zap.Float64("mean", sum.Mean),
		zap.Float64("stddev", sum.StdDev),
		zap.Float64("min", sum.Min),
		zap.Float64("max", sum.Max))
	return err
}

func closeLogged(log *zap.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn("close failed", zap.String("what", what), zap.Error(err))
	}
}
