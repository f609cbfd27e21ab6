package plot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/icza/mjpeg"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// File names written by Images inside its directory.
const (
	MovieFile    = "regolith.avi"
	ChartFile    = "fraction.png"
	framePattern = "frame_%05d.png"
)

// ImagesConfig selects the outputs of an Images plotter.
type ImagesConfig struct {
	Dir    string
	Frames bool // One PNG per frame
	Movie  bool // MJPEG AVI of all frames
	Chart  bool // Saprolite fraction over time, written on Finalize
	FPS    int
	Scale  int
}

// Images writes frames to disk.
type Images struct {
	cfg    ImagesConfig
	cmap   Colormap
	logger *slog.Logger

	mu        sync.Mutex
	movie     mjpeg.AviWriter
	jpegBuf   bytes.Buffer
	times     []float64
	fractions []float64
	written   int
}

// ImagesOption configures an Images plotter.
type ImagesOption func(*Images)

// WithImagesLogger sets the logger used to report written files.
func WithImagesLogger(logger *slog.Logger) ImagesOption {
	return func(i *Images) {
		i.logger = logger
	}
}

// NewImages creates the output directory and returns the plotter.
func NewImages(cfg ImagesConfig, cmap Colormap, opts ...ImagesOption) (*Images, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: images plotter needs an output directory", domain.ErrInvalidConfig)
	}
	if cfg.FPS < 1 {
		cfg.FPS = 10
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", cfg.Dir, err)
	}

	i := &Images{cfg: cfg, cmap: cmap, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Update renders the frame and appends it to the enabled outputs.
func (i *Images) Update(ctx context.Context, frame *domain.Frame) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.times = append(i.times, frame.Time)
	i.fractions = append(i.fractions, frame.SaproliteFraction())

	if !i.cfg.Frames && !i.cfg.Movie {
		return nil
	}

	img := Render(frame, i.cmap, i.cfg.Scale)
	Stamp(img, TimeLabel(frame.Time))

	if i.cfg.Frames {
		path := filepath.Join(i.cfg.Dir, fmt.Sprintf(framePattern, frame.Step))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create frame file: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode frame %d: %w", frame.Step, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close frame file: %w", err)
		}
	}

	if i.cfg.Movie {
		if i.movie == nil {
			b := img.Bounds()
			movie, err := mjpeg.New(filepath.Join(i.cfg.Dir, MovieFile), int32(b.Dx()), int32(b.Dy()), int32(i.cfg.FPS))
			if err != nil {
				return fmt.Errorf("create movie: %w", err)
			}
			i.movie = movie
		}
		i.jpegBuf.Reset()
		if err := jpeg.Encode(&i.jpegBuf, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("encode movie frame %d: %w", frame.Step, err)
		}
		if err := i.movie.AddFrame(i.jpegBuf.Bytes()); err != nil {
			return fmt.Errorf("add movie frame %d: %w", frame.Step, err)
		}
	}

	i.written++
	return nil
}

// Finalize closes the movie and draws the fraction chart.
func (i *Images) Finalize(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	var errs []error
	if i.movie != nil {
		if err := i.movie.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close movie: %w", err))
		}
		i.movie = nil
	}
	if i.cfg.Chart && len(i.times) >= 2 {
		if err := i.writeChart(); err != nil {
			errs = append(errs, err)
		}
	}
	i.logger.Info("images written", "dir", i.cfg.Dir, "frames", i.written, "movie", i.cfg.Movie, "chart", i.cfg.Chart)
	return errors.Join(errs...)
}

func (i *Images) writeChart() error {
	maxT := i.times[len(i.times)-1]
	if maxT <= 0 {
		maxT = 1
	}

	grain := i.cmap.Color(domain.Saprolite)
	graph := chart.Chart{
		Title:  "Saprolite fraction",
		Width:  640,
		Height: 360,
		XAxis: chart.XAxis{
			Name:  "simulated time (s)",
			Range: &chart.ContinuousRange{Min: 0, Max: maxT},
		},
		YAxis: chart.YAxis{
			Name:  "fraction",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "saprolite",
				XValues: i.times,
				YValues: i.fractions,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: grain.R, G: grain.G, B: grain.B, A: 255},
					StrokeWidth: 3.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(filepath.Join(i.cfg.Dir, ChartFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
