package plot

import (
	"context"
	"errors"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// Nop discards frames.
type Nop struct{}

func (Nop) Update(context.Context, *domain.Frame) error { return nil }
func (Nop) Finalize(context.Context) error              { return nil }

type multi []ports.Plotter

// Multi sends every frame to each plotter. All plotters see every call;
// their errors are joined.
func Multi(plotters ...ports.Plotter) ports.Plotter {
	var m multi
	for _, p := range plotters {
		if p != nil {
			m = append(m, p)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multi) Update(ctx context.Context, frame *domain.Frame) error {
	var errs []error
	for _, p := range m {
		if err := p.Update(ctx, frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Finalize(ctx context.Context) error {
	var errs []error
	for _, p := range m {
		if err := p.Finalize(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
