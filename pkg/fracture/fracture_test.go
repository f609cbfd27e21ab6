package fracture_test

import (
	"testing"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/fracture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 60, fracture.Count(10, 300, 300))
	assert.Equal(t, 1, fracture.Count(10, 2, 2))
	assert.Equal(t, 0, fracture.Count(0, 300, 300))
	assert.Equal(t, 0, fracture.Count(10, 0, 300))
}

func TestGenerate_Reproducible(t *testing.T) {
	a := fracture.New(7).Generate(10, 40, 50, make([]domain.NodeState, 40*50))
	b := fracture.New(7).Generate(10, 40, 50, make([]domain.NodeState, 40*50))
	assert.Equal(t, a, b)

	c := fracture.New(8).Generate(10, 40, 50, make([]domain.NodeState, 40*50))
	assert.NotEqual(t, a, c)
}

func TestGenerate_DrawsLines(t *testing.T) {
	rows, cols := 30, 30
	out := fracture.New(1).Generate(10, rows, cols, nil)
	require.Len(t, out, rows*cols)

	n := 0
	for _, s := range out {
		require.LessOrEqual(t, s, domain.Saprolite)
		if s == domain.Saprolite {
			n++
		}
	}
	// Six fractures of at most one node per row or column each.
	assert.Positive(t, n)
	assert.LessOrEqual(t, n, 6*(rows+1))
}

func TestGenerate_OverwritesTarget(t *testing.T) {
	target := make([]domain.NodeState, 25)
	for i := range target {
		target[i] = domain.Saprolite
	}
	out := fracture.New(3).Generate(100, 5, 5, target)

	assert.Equal(t, &target[0], &out[0], "target is reused")
	assert.Equal(t, int64(3), fracture.New(3).Seed())
	zeros := 0
	for _, s := range out {
		if s == domain.Rock {
			zeros++
		}
	}
	assert.Positive(t, zeros)
}

func TestNew_ZeroSeedUsesClock(t *testing.T) {
	assert.NotZero(t, fracture.New(0).Seed())
}

func TestGenerate_LineSeedsAreConsecutive(t *testing.T) {
	rows, cols := 20, 20
	one := rows + cols // spacing for a single line
	two := one / 2     // spacing for two lines

	first := fracture.New(11).Generate(one, rows, cols, nil)
	second := fracture.New(12).Generate(one, rows, cols, nil)
	both := fracture.New(11).Generate(two, rows, cols, nil)

	for i := range both {
		want := domain.Rock
		if first[i] == domain.Saprolite || second[i] == domain.Saprolite {
			want = domain.Saprolite
		}
		require.Equal(t, want, both[i], "node %d", i)
	}
}
