package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// AssetEdit replaces an asset's mutable fields. The deposit is re-sized
// to the new payload: the old deposit is released and a new one reserved.
type AssetEdit struct {
	BaseOp
	AssetID     id.ID              `json:"asset_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Media       string             `json:"media,omitempty"`
	MediaHash   string             `json:"media_hash,omitempty"`
	Royalty     []sle.RoyaltyShare `json:"royalty,omitempty"`
}

// Validate performs stateless checks.
func (e *AssetEdit) Validate() error {
	if err := e.Common.Validate(); err != nil {
		return err
	}
	if e.AssetID.IsZero() {
		return ErrMissingAsset
	}
	if e.Title == "" {
		return ErrMissingTitle
	}
	return validateRoyalty(e.Royalty)
}

// Apply rewrites the asset record.
func (e *AssetEdit) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, e.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if asset.Owner != e.Account {
		return ErrNotOwner
	}

	asset.Title = e.Title
	asset.Description = e.Description
	asset.Media = e.Media
	asset.MediaHash = e.MediaHash
	asset.Royalty = e.Royalty

	oldDeposit := asset.Deposit
	asset.Deposit = ctx.DataDeposit(asset.PayloadSize())

	if res := unreserve(ctx, e.Account, oldDeposit); !res.IsSuccess() {
		return res
	}
	if res := reserve(ctx, e.Account, asset.Deposit); !res.IsSuccess() {
		return res
	}
	if res := storeAsset(ctx.View, asset); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{Kind: EventAssetEdited, Asset: asset.ID, Account: e.Account})
	return OK
}
