package ports

import "context"

// LayerStore is the narrow interface to the backing content store. It resolves
// a layer reference, either a direct content digest or a symbolic tag, to the
// digest of the content it names. The store's internal format is not part of
// this interface.
//
//go:generate mockgen -source=layer_store.go -destination=mocks/mock_layer_store.go -package=mocks
type LayerStore interface {
	// ResolveReference resolves a layer reference to a content digest.
	// Unknown references fail with domain.ErrUnknownLayerReference, carrying
	// similar known names as suggestions when any exist.
	ResolveReference(ctx context.Context, reference string) (string, error)
}
