package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
)

// CollectionDestroy removes an empty collection and releases its deposit.
type CollectionDestroy struct {
	BaseOp
	CollectionID id.ID `json:"collection_id"`
}

// Validate performs stateless checks.
func (d *CollectionDestroy) Validate() error {
	if err := d.Common.Validate(); err != nil {
		return err
	}
	if d.CollectionID.IsZero() {
		return ErrMissingCollection
	}
	return nil
}

// Apply removes the collection record.
func (d *CollectionDestroy) Apply(ctx *ApplyContext) Result {
	coll, res := loadCollection(ctx.View, d.CollectionID)
	if !res.IsSuccess() {
		return res
	}
	if coll.Creator != d.Account {
		return ErrNotOwner
	}

	hasAssets, res := collectionHasAssets(ctx.View, d.CollectionID)
	if !res.IsSuccess() {
		return res
	}
	if hasAssets {
		return ErrCollectionNotEmpty
	}

	if res := unreserve(ctx, d.Account, coll.Deposit); !res.IsSuccess() {
		return res
	}
	if err := ctx.View.Erase(keylet.Collection(d.CollectionID)); err != nil {
		return ErrInternal
	}

	ctx.Emit(Event{Kind: EventCollectionDestroyed, Collection: d.CollectionID, Account: d.Account})
	return OK
}
