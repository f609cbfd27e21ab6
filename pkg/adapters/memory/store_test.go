package memory_test

import (
	"testing"

	"github.com/aretw0/regolith/pkg/adapters/memory"
	"github.com/aretw0/regolith/pkg/ports"
)

func TestMemoryFrameStore_Contract(t *testing.T) {
	store := memory.NewFrameStore()
	ports.RunFrameStoreContract(t, store)
}
