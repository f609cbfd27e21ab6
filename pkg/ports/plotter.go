package ports

import (
	"context"

	"github.com/aretw0/regolith/pkg/domain"
)

// Plotter displays simulation frames.
// Update is called once before the loop and once per step; Finalize once at the end.
type Plotter interface {
	Update(ctx context.Context, frame *domain.Frame) error
	Finalize(ctx context.Context) error
}
