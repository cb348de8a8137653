package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/edgetracker/config"
	"github.com/xaionaro-go/edgetracker/filter"
	"github.com/xaionaro-go/edgetracker/tracker"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Runs a synthetic moving square through the edge-detecting tracker filter.\n\n")
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	configPath := pflag.String("config", "", "path to a YAML config file")
	dumpConfig := pflag.Bool("dump-config", false, "print the effective config and exit")
	disable := pflag.Bool("disable", false, "bypass the processing (overrides the config)")
	silent := pflag.Bool("silent", false, "lower the verbosity of per-frame diagnostics (overrides the config)")
	trackerKind := pflag.String("tracker", "", "tracker algorithm: template, kcf, csrt, mil (overrides the config)")
	frames := pflag.Int("frames", 0, "amount of frames to generate, 0 or negative means infinite (overrides the config)")
	toggleEvery := pflag.Duration("toggle-every", 0, "flip the 'enabled' property with this period (0 disables)")
	snapshot := pflag.String("snapshot", "", "save the last output frame into this image file")
	caps := pflag.String("caps", "", "announce this format descriptor instead of the generated one, e.g. 'video/x-raw, format=BGR, width=640, height=480' (overrides the config)")
	pflag.Parse()
	if len(pflag.Args()) != 0 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			l.Fatal(err)
		}
	}
	pflag.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "disable":
			cfg.Enabled = !*disable
		case "silent":
			cfg.Silent = *silent
		case "tracker":
			kind, err := tracker.ParseKind(*trackerKind)
			if err != nil {
				l.Fatal(err)
			}
			cfg.Tracker.Kind = kind
		case "frames":
			cfg.Source.Frames = *frames
		case "caps":
			cfg.Source.Caps = *caps
		}
	})
	if err := cfg.Validate(); err != nil {
		l.Fatal(err)
	}

	if *dumpConfig {
		if err := cfg.Write(os.Stdout); err != nil {
			l.Fatal(err)
		}
		return
	}

	sink := newCountingSink()
	f, err := filter.New(ctx, cfg.Filter(), sink)
	if err != nil {
		l.Fatal(err)
	}
	defer f.Close(ctx)

	if *toggleEvery > 0 {
		observability.Go(ctx, func(ctx context.Context) {
			t := time.NewTicker(*toggleEvery)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					enabled := !f.IsEnabled()
					l.Infof("setting enabled=%v", enabled)
					f.SetEnabled(enabled)
				}
			}
		})
	}

	source := newMovingSquareSource(cfg.Source)
	errCh := make(chan error, 1)
	startedAt := time.Now()
	observability.Go(ctx, func(ctx context.Context) {
		defer cancelFn()
		errCh <- source.Serve(ctx, f)
	})

	t := time.NewTicker(time.Second)
	defer t.Stop()
	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-sink.eos.CloseChan():
			running = false
		case <-t.C:
			printStats(f, sink, time.Since(startedAt))
		}
	}

	select {
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			l.Error(err)
		}
	default:
	}
	printStats(f, sink, time.Since(startedAt))

	if *snapshot != "" {
		if err := sink.SaveLastFrame(ctx, *snapshot); err != nil {
			l.Fatal(err)
		}
	}
}

func printStats(
	f *filter.Filter,
	sink *countingSink,
	elapsed time.Duration,
) {
	ctx := context.Background()
	stats := f.Stats()
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		panic(err)
	}
	outBytes := sink.bytes.Load()
	fmt.Printf(
		"%s: tracker:%s box:%v out:%d (%s, %s/s) pts-problems:%d stats:%s\n",
		f, f.TrackerStatus(ctx), f.TrackerBox(ctx),
		sink.buffers.Load(), humanize.IBytes(outBytes),
		humanize.IBytes(uint64(float64(outBytes)/max(elapsed.Seconds(), 1e-9))),
		sink.ptsProblems.Load(), statsJSON,
	)
}

func encoderForPath(path string) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported image extension '%s'", ext)
	}
}
