package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// ListForSale puts an asset on the market. If the asset is already
// listed the operation succeeds without touching the existing listing
// and emits an AlreadyOnSale notice; repricing goes through SetPrice.
type ListForSale struct {
	BaseOp
	AssetID id.ID   `json:"asset_id"`
	Price   *uint64 `json:"price,omitempty"`
}

// Validate performs stateless checks.
func (l *ListForSale) Validate() error {
	if err := l.Common.Validate(); err != nil {
		return err
	}
	if l.AssetID.IsZero() {
		return ErrMissingAsset
	}
	return nil
}

// Apply creates the listing.
func (l *ListForSale) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, l.AssetID)
	if !res.IsSuccess() {
		return res
	}

	existing, res := loadListing(ctx.View, l.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if existing != nil {
		// The original listing stands untouched.
		ctx.Emit(Event{Kind: EventAlreadyOnSale, Asset: l.AssetID, Account: l.Account})
		return OK
	}

	if asset.Owner != l.Account {
		return ErrNotOwner
	}

	listing := &sle.Listing{
		AssetID: l.AssetID,
		Lister:  l.Account,
		Deposit: ctx.Config.ListingDeposit,
		Expires: ctx.Now() + ctx.Config.ListingDuration,
	}
	if l.Price != nil {
		listing.Price = *l.Price
		listing.HasPrice = true
	}

	if res := reserve(ctx, l.Account, listing.Deposit); !res.IsSuccess() {
		return res
	}

	data, err := sle.SerializeListing(listing)
	if err != nil {
		return ErrInternal
	}
	if err := ctx.View.Insert(keylet.Listing(l.AssetID), data); err != nil {
		return ErrInternal
	}

	ctx.Emit(Event{
		Kind:    EventListed,
		Asset:   l.AssetID,
		Account: l.Account,
		Amount:  listing.Price,
	})
	return OK
}
