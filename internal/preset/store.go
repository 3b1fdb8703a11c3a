package preset

import "context"

// Store defines persistence operations for named variations.
type Store interface {
	Init(ctx context.Context) error
	SaveVariation(ctx context.Context, v Variation) error
	GetVariation(ctx context.Context, name string) (Variation, bool, error)
	ListVariations(ctx context.Context) ([]Variation, error)
	DeleteVariation(ctx context.Context, name string) error
}
