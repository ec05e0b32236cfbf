package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// AssetMint creates a new asset inside an existing collection. The caller
// becomes creator and owner and funds a deposit proportional to the
// payload size.
type AssetMint struct {
	BaseOp
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	Media        string             `json:"media,omitempty"`
	MediaHash    string             `json:"media_hash,omitempty"`
	Royalty      []sle.RoyaltyShare `json:"royalty,omitempty"`
	CollectionID id.ID              `json:"collection_id"`
}

// Validate performs stateless checks.
func (m *AssetMint) Validate() error {
	if err := m.Common.Validate(); err != nil {
		return err
	}
	if m.Title == "" {
		return ErrMissingTitle
	}
	if m.CollectionID.IsZero() {
		return ErrMissingCollection
	}
	return validateRoyalty(m.Royalty)
}

// validateRoyalty rejects tables whose percentages sum past 100.
func validateRoyalty(shares []sle.RoyaltyShare) error {
	var total uint32
	for _, share := range shares {
		total += uint32(share.Percent)
	}
	if total > 100 {
		return ErrRoyaltyOverflow
	}
	return nil
}

// Apply creates the asset record.
func (m *AssetMint) Apply(ctx *ApplyContext) Result {
	if _, res := loadCollection(ctx.View, m.CollectionID); !res.IsSuccess() {
		return res
	}

	asset := &sle.Asset{
		ID:           ctx.NewID(),
		Title:        m.Title,
		Description:  m.Description,
		Media:        m.Media,
		MediaHash:    m.MediaHash,
		Creator:      m.Account,
		Owner:        m.Account,
		Royalty:      m.Royalty,
		CollectionID: m.CollectionID,
	}
	asset.Deposit = ctx.DataDeposit(asset.PayloadSize())

	if res := reserve(ctx, m.Account, asset.Deposit); !res.IsSuccess() {
		return res
	}
	if res := insertAsset(ctx.View, asset); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{
		Kind:       EventAssetMinted,
		Asset:      asset.ID,
		Collection: m.CollectionID,
		Account:    m.Account,
	})
	return OK
}
