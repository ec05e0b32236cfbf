package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
)

// AssetBurn retires an asset. A plain listing is removed along with the
// asset so a burnt asset is never listed; an installment-locked asset
// cannot be burnt. The asset deposit returns to the owner.
type AssetBurn struct {
	BaseOp
	AssetID id.ID `json:"asset_id"`
}

// Validate performs stateless checks.
func (b *AssetBurn) Validate() error {
	if err := b.Common.Validate(); err != nil {
		return err
	}
	if b.AssetID.IsZero() {
		return ErrMissingAsset
	}
	return nil
}

// Apply burns the asset. Depending on configuration the record is kept
// with Burnt set or hard-deleted.
func (b *AssetBurn) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, b.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if asset.Owner != b.Account {
		return ErrNotOwner
	}

	listing, res := loadListing(ctx.View, b.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if listing != nil {
		if listing.InInstallment {
			return ErrInInstallment
		}
		if res := unreserve(ctx, listing.Lister, listing.Deposit); !res.IsSuccess() {
			return res
		}
		if err := ctx.View.Erase(keylet.Listing(b.AssetID)); err != nil {
			return ErrInternal
		}
	}

	if res := unreserve(ctx, b.Account, asset.Deposit); !res.IsSuccess() {
		return res
	}

	if ctx.Config.RetainBurnt {
		asset.Burnt = true
		asset.Deposit = 0
		if res := storeAsset(ctx.View, asset); !res.IsSuccess() {
			return res
		}
	} else {
		if err := ctx.View.Erase(keylet.Asset(b.AssetID)); err != nil {
			return ErrInternal
		}
	}

	ctx.Emit(Event{Kind: EventAssetBurned, Asset: b.AssetID, Account: b.Account})
	return OK
}
