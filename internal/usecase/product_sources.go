package usecase

import (
	"context"
	"errors"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
)

// NamedSource pairs a product source with the name used in logs
type NamedSource[T any] struct {
	Name   string
	Source T
}

// FallbackBarcodeLookup asks each lookup in turn until one knows the barcode
type FallbackBarcodeLookup []NamedSource[domain.BarcodeLookup]

// LookupBarcode implements domain.BarcodeLookup
func (f FallbackBarcodeLookup) LookupBarcode(ctx context.Context, barcode string) (*domain.RawProductRecord, error) {
	return firstFound(ctx, f, "barcode", barcode, func(src domain.BarcodeLookup) (*domain.RawProductRecord, error) {
		return src.LookupBarcode(ctx, barcode)
	})
}

// FallbackSearcher asks each searcher in turn until one finds the product
type FallbackSearcher []NamedSource[domain.ProductSearcher]

// SearchProduct implements domain.ProductSearcher
func (f FallbackSearcher) SearchProduct(ctx context.Context, name string) (*domain.RawProductRecord, error) {
	return firstFound(ctx, f, "query", name, func(src domain.ProductSearcher) (*domain.RawProductRecord, error) {
		return src.SearchProduct(ctx, name)
	})
}

// firstFound returns the first successful result. Invalid input and context errors
// stop the chain. When every source fails, an upstream failure wins over not found.
func firstFound[T any](
	ctx context.Context,
	sources []NamedSource[T],
	field, value string,
	call func(T) (*domain.RawProductRecord, error),
) (*domain.RawProductRecord, error) {
	var failure error
	for _, src := range sources {
		raw, err := call(src.Source)
		if err == nil && raw != nil {
			return raw, nil
		}
		if err == nil {
			err = domain.ErrProductNotFound
		}
		if errors.Is(err, domain.ErrInvalidRequest) || ctx.Err() != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"source": src.Name,
			field:    value,
		}).WithError(err).Debug("product source missed, trying next")

		if !errors.Is(err, domain.ErrProductNotFound) && failure == nil {
			failure = err
		}
	}

	if failure != nil {
		return nil, failure
	}
	return nil, domain.ErrProductNotFound
}
