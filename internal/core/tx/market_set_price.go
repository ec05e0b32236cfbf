package tx

import "github.com/nftmarketd/nftmarketd/internal/core/id"

// SetPrice reprices an existing listing. Only the asset's current owner
// may reprice, and a listing locked by an installment plan cannot change.
type SetPrice struct {
	BaseOp
	AssetID id.ID  `json:"asset_id"`
	Price   uint64 `json:"price"`
}

// Validate performs stateless checks.
func (s *SetPrice) Validate() error {
	if err := s.Common.Validate(); err != nil {
		return err
	}
	if s.AssetID.IsZero() {
		return ErrMissingAsset
	}
	return nil
}

// Apply updates the listing price.
func (s *SetPrice) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, s.AssetID)
	if !res.IsSuccess() {
		return res
	}

	listing, res := loadListing(ctx.View, s.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if asset.Owner != s.Account {
		return ErrNotOwner
	}
	if listing.InInstallment {
		return ErrInInstallment
	}

	listing.Price = s.Price
	listing.HasPrice = true
	if res := storeListing(ctx.View, listing); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{Kind: EventPriceSet, Asset: s.AssetID, Account: s.Account, Amount: s.Price})
	return OK
}
