// Command devicesim posts synthetic sensor readings to a running server over
// HTTP or publishes them to the MQTT readings topic.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
)

type options struct {
	Mode     string
	URL      string
	Broker   string
	Port     int
	Topic    string
	SensorID string
	Count    int
	Interval time.Duration
	Seed     uint64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen}))
	if err := run(ctx, os.Args[1:], logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("devicesim failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("devicesim", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.Mode, "mode", "http", "transport: http or mqtt")
	fs.StringVar(&o.URL, "url", "http://localhost:8080", "server base URL (http mode)")
	fs.StringVar(&o.Broker, "broker", "localhost", "MQTT broker host (mqtt mode)")
	fs.IntVar(&o.Port, "port", 1883, "MQTT broker port (mqtt mode)")
	fs.StringVar(&o.Topic, "topic", "water/+/readings", "MQTT topic; + is replaced by the sensor id")
	fs.StringVar(&o.SensorID, "sensor", "S100", "sensorId to report as")
	fs.IntVar(&o.Count, "count", 1, "number of readings to send (0 = until interrupted)")
	fs.DurationVar(&o.Interval, "interval", 5*time.Second, "delay between readings")
	fs.Uint64Var(&o.Seed, "seed", 0, "random seed (0 = time based)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch o.Mode {
	case "http", "mqtt":
	default:
		return options{}, fmt.Errorf("invalid -mode %q (allowed: http, mqtt)", o.Mode)
	}
	if o.SensorID == "" {
		return options{}, errors.New("-sensor must not be empty")
	}
	if o.Count < 0 {
		return options{}, errors.New("-count must be >= 0")
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o, nil
}

func run(ctx context.Context, args []string, logger *slog.Logger) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	var s sender
	switch o.Mode {
	case "mqtt":
		ms, err := newMQTTSender(ctx, o.Broker, o.Port, o.Topic)
		if err != nil {
			return err
		}
		defer ms.Close()
		s = ms
	default:
		s = newHTTPSender(o.URL)
	}

	gen := newGenerator(o.SensorID, rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15)))
	return loop(ctx, s, gen, o.Count, o.Interval, logger)
}

func loop(ctx context.Context, s sender, gen *generator, count int, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; count == 0 || i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		p := gen.next()
		result, err := s.Send(ctx, p)
		if err != nil {
			logger.Error("send failed", "sensor_id", p.SensorID, "error", err)
			continue
		}
		logger.Info("reading sent", "sensor_id", p.SensorID, "result", result)
	}
	return nil
}
