package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
)

// BuyNow purchases a listed asset outright at the listed price. Royalty
// shares are paid from the buyer, the seller receives the remainder, the
// listing is removed and its deposit returns to the seller.
type BuyNow struct {
	BaseOp
	AssetID id.ID `json:"asset_id"`
}

// Validate performs stateless checks.
func (b *BuyNow) Validate() error {
	if err := b.Common.Validate(); err != nil {
		return err
	}
	if b.AssetID.IsZero() {
		return ErrMissingAsset
	}
	return nil
}

// Apply settles the sale.
func (b *BuyNow) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, b.AssetID)
	if !res.IsSuccess() {
		return res
	}

	listing, res := loadListing(ctx.View, b.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if listing == nil || !listing.HasPrice {
		return ErrNotSelling
	}
	if listing.InInstallment {
		return ErrInInstallment
	}
	if asset.Owner == b.Account {
		return ErrTransferToSelf
	}

	seller := asset.Owner
	if res := settle(ctx, asset, seller, b.Account, listing.Price); !res.IsSuccess() {
		return res
	}

	asset.Owner = b.Account
	if res := storeAsset(ctx.View, asset); !res.IsSuccess() {
		return res
	}

	if res := unreserve(ctx, listing.Lister, listing.Deposit); !res.IsSuccess() {
		return res
	}
	if err := ctx.View.Erase(keylet.Listing(b.AssetID)); err != nil {
		return ErrInternal
	}

	ctx.Emit(Event{
		Kind:  EventTransferred,
		Asset: b.AssetID,
		From:  seller,
		To:    b.Account,
	})
	return OK
}
