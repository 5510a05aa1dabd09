package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/asset"
)

// Registry is the ordered, read-only catalog of exchanges.
// Iteration order is the reporting order.
type Registry struct {
	ordered []*Descriptor
	byID    map[string]*Descriptor
	assets  *asset.Registry
}

// NewRegistry validates and registers descriptors in the given order.
func NewRegistry(assets *asset.Registry, descriptors ...*Descriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, apperror.New(apperror.CodeInvalidDescriptor, apperror.WithMessage("no exchanges registered"))
	}

	r := &Registry{
		ordered: make([]*Descriptor, 0, len(descriptors)),
		byID:    make(map[string]*Descriptor, len(descriptors)),
		assets:  assets,
	}

	for _, d := range descriptors {
		if d == nil {
			return nil, apperror.New(apperror.CodeInvalidDescriptor, apperror.WithMessage("nil descriptor"))
		}
		if err := d.validate(assets); err != nil {
			return nil, apperror.New(apperror.CodeInvalidDescriptor,
				apperror.WithContext(d.ID), apperror.WithMessage(err.Error()))
		}
		if _, exists := r.byID[d.ID]; exists {
			return nil, apperror.New(apperror.CodeInvalidDescriptor,
				apperror.WithContext(d.ID), apperror.WithMessage("duplicate exchange id"))
		}
		r.ordered = append(r.ordered, d)
		r.byID[d.ID] = d
	}

	return r, nil
}

// All returns the descriptors in registry order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get looks up a descriptor by id.
func (r *Registry) Get(id string) (*Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Lookup is Get returning an EXCHANGE_NOT_FOUND error.
func (r *Registry) Lookup(id string) (*Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, apperror.NotFound(apperror.CodeExchangeNotFound, id)
	}
	return d, nil
}

// FeeRate returns the fee for id, zero when unknown.
func (r *Registry) FeeRate(id string) decimal.Decimal {
	if d, ok := r.byID[id]; ok {
		return d.FeeRate
	}
	return decimal.Zero
}

// Len returns the number of exchanges.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Assets returns the asset registry descriptors were validated against.
func (r *Registry) Assets() *asset.Registry {
	return r.assets
}

// WithFees returns a new registry where the given ids use overridden fees.
// Unknown ids are an error.
func (r *Registry) WithFees(fees map[string]decimal.Decimal) (*Registry, error) {
	for id := range fees {
		if _, ok := r.byID[id]; !ok {
			return nil, apperror.New(apperror.CodeInvalidDescriptor,
				apperror.WithContext(id), apperror.WithMessage(fmt.Sprintf("fee override for unknown exchange %q", id)))
		}
	}

	descs := make([]*Descriptor, len(r.ordered))
	for i, d := range r.ordered {
		if fee, ok := fees[d.ID]; ok {
			descs[i] = d.WithFee(fee)
		} else {
			descs[i] = d
		}
	}
	return NewRegistry(r.assets, descs...)
}
