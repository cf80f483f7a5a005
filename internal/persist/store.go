package persist

import (
	"context"

	"github.com/ccvpets/server/internal/world"
)

// Store persists the whole pet collection keyed by owner id. Save replaces
// the collection wholesale; there is no per-record upsert, matching the
// registry's read-modify-write cycle.
type Store interface {
	Load(ctx context.Context) (map[string]*world.PetState, error)
	Save(ctx context.Context, pets map[string]*world.PetState) error
}
