package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aretw0/regolith"
	"github.com/aretw0/regolith/internal/config"
	"github.com/aretw0/regolith/internal/presentation/tui"
	livehttp "github.com/aretw0/regolith/pkg/adapters/http"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/observability"
	"github.com/aretw0/regolith/pkg/plot"
	"github.com/aretw0/regolith/pkg/ports"
	"github.com/aretw0/regolith/pkg/runner"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RunOptions holds the configuration for running a simulation from the command line.
// Flag fields left empty keep the value from the config file.
type RunOptions struct {
	ConfigPath string
	Overrides  []string // key=value pairs from --set

	Seed      *int64
	PlotMode  string
	OutDir    string
	StoreKind string
	RedisAddr string
	BadgerDir string
	ServeAddr string
	RunID     string
	Debug     bool

	// Store replaces the configured frame store.
	Store ports.FrameStore

	Stdout io.Writer
	Stderr io.Writer
}

// flagOverrides turns the dedicated flags into key=value overrides applied after --set.
func (o RunOptions) flagOverrides() []string {
	var out []string
	add := func(key, value string) {
		if value != "" {
			out = append(out, key+"="+value)
		}
	}
	if o.Seed != nil {
		add("seed", strconv.FormatInt(*o.Seed, 10))
	}
	add("plot.mode", o.PlotMode)
	add("plot.out_dir", o.OutDir)
	add("store.kind", o.StoreKind)
	add("store.redis.addr", o.RedisAddr)
	add("store.badger.dir", o.BadgerDir)
	add("serve.addr", o.ServeAddr)
	return out
}

func (o *RunOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// RunSimulation loads the configuration, builds the model and runs it to completion.
// With a serve address the HTTP live view keeps serving after the run until ctx is done.
func RunSimulation(ctx context.Context, opts RunOptions) (*runner.Result, error) {
	opts.defaults()

	cfg, err := loadConfig(opts.ConfigPath, append(append([]string{}, opts.Overrides...), opts.flagOverrides()...))
	if err != nil {
		return nil, err
	}
	logger := createLogger(opts.Stderr, cfg.Log.Level, opts.Debug)

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	} else if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	interactive := plot.IsTerminal(opts.Stdout)
	if interactive {
		tui.PrintBanner(opts.Stdout)
	}

	sim, err := regolith.New(ctx, regolith.Params{
		Rows:            cfg.Rows,
		Cols:            cfg.Cols,
		Spacing:         cfg.Spacing,
		FractureSpacing: cfg.FractureSpacing,
		Seed:            cfg.Seed,
	}, regolith.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("simulation ready", "run_id", runID, "rows", cfg.Rows, "cols", cfg.Cols, "seed", sim.Params.Seed)

	cmap, err := plot.ParseColormap(cfg.Colors.Fluid, cfg.Colors.Grain)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := resolveStore(ctx, cfg, opts.Store, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	if store != nil && store.locker != nil {
		lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		unlock, err := store.locker.Lock(lockCtx, runID, cfg.Store.Redis.LockTTL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("lock run %s: %w", runID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release run lock", "run_id", runID, "err", err)
			}
		}()
	}

	var live *livehttp.Live
	if cfg.Serve.Addr != "" {
		live = livehttp.NewLive(logger)
	}
	plotter, outputs, err := buildPlotter(cfg, cmap, opts.Stdout, interactive, logger, live)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	runOpts := []runner.Option{
		runner.WithPlotter(plotter),
		runner.WithLifecycleHooks(metrics.Hooks(logger)),
		runner.WithReportWriter(opts.Stdout),
		runner.WithRunID(runID),
	}
	var frames ports.FrameStore
	if store != nil {
		frames = store.store
		runOpts = append(runOpts, runner.WithStore(frames))
	}
	r := sim.Runner(runner.Config{
		PlotInterval:   cfg.PlotInterval,
		RunDuration:    cfg.RunDuration,
		ReportInterval: cfg.ReportInterval,
	}, runOpts...)

	sig, _ := ctx.(*SignalContext)
	var res *runner.Result
	runSim := func(ctx context.Context) error {
		var err error
		res, err = r.Run(ctx)
		var s os.Signal
		if sig != nil {
			s = sig.Signal()
		}
		simTime := 0.0
		if res != nil {
			simTime = res.SimTime
		}
		logCompletion(opts.Stderr, simTime, err, s)
		return err
	}

	if live == nil {
		err = runSim(ctx)
	} else {
		handler := livehttp.NewHandler(live,
			livehttp.WithStore(frames),
			livehttp.WithRegistry(metrics.Registry),
			livehttp.WithColormap(cmap),
			livehttp.WithScale(cfg.Plot.Scale),
			livehttp.WithVersion(regolith.Version),
			livehttp.WithLogger(logger),
		)
		err = serve(ctx, cfg.Serve.Addr, handler, logger, runSim)
	}

	if interactive && res != nil {
		printSummary(opts.Stdout, cfg, sim.Params.Seed, res, outputs, err)
	}
	return res, err
}

// resolveStore prefers an injected store over the configured one.
func resolveStore(ctx context.Context, cfg config.Config, injected ports.FrameStore, logger *slog.Logger) (*storeHandle, func(), error) {
	if injected != nil {
		return &storeHandle{store: injected}, func() {}, nil
	}
	h, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	return h, func() {
		if err := h.Close(); err != nil {
			logger.Warn("failed to close frame store", "err", err)
		}
	}, nil
}

// buildPlotter assembles the display for cfg.Plot.Mode, plus the live view when serving.
// It returns the files the display will write, for the summary.
func buildPlotter(cfg config.Config, cmap plot.Colormap, stdout io.Writer, interactive bool, logger *slog.Logger, live *livehttp.Live) (ports.Plotter, []string, error) {
	var plotters []ports.Plotter
	var outputs []string

	switch cfg.Plot.Mode {
	case config.PlotTerminal:
		if interactive {
			plotters = append(plotters, plot.NewTerminal(stdout, cmap))
		} else {
			logger.Warn("stdout is not a terminal, live plot disabled")
		}
	case config.PlotImages:
		ic := plot.ImagesConfig{
			Dir:    cfg.Plot.OutDir,
			Frames: cfg.Plot.Frames,
			Movie:  cfg.Plot.Movie,
			Chart:  true,
			FPS:    cfg.Plot.FPS,
			Scale:  cfg.Plot.Scale,
		}
		if !ic.Frames && !ic.Movie {
			ic.Frames = true
		}
		images, err := plot.NewImages(ic, cmap, plot.WithImagesLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		plotters = append(plotters, images)
		if ic.Frames {
			outputs = append(outputs, filepath.Join(ic.Dir, "frame_*.png"))
		}
		if ic.Movie {
			outputs = append(outputs, filepath.Join(ic.Dir, plot.MovieFile))
		}
		outputs = append(outputs, filepath.Join(ic.Dir, plot.ChartFile))
	}

	if live != nil {
		plotters = append(plotters, live)
	}
	return plot.Multi(plotters...), outputs, nil
}

// serve runs the simulation next to the HTTP live view and keeps serving until ctx is done.
func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, runSim func(context.Context) error) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving live view", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := runSim(gctx); err != nil {
			return err
		}
		logger.Info("simulation finished, still serving until interrupted", "addr", ln.Addr().String())
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func printSummary(w io.Writer, cfg config.Config, seed int64, res *runner.Result, outputs []string, err error) {
	s := tui.Summary{
		RunID:             res.RunID,
		Rows:              cfg.Rows,
		Cols:              cfg.Cols,
		Seed:              seed,
		Steps:             res.Steps,
		SimTime:           res.SimTime,
		RunDuration:       cfg.RunDuration,
		Transitions:       res.Transitions,
		SaproliteFraction: res.SaproliteFraction,
		Elapsed:           res.Elapsed,
		Outputs:           outputs,
		Err:               err,
	}
	render := tui.NewRenderer()
	out, rerr := render(s.Markdown())
	if rerr != nil {
		out = s.Markdown()
	}
	fmt.Fprint(w, out)
}
