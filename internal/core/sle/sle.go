// Package sle defines the state ledger entries and their serialized form.
package sle

import "github.com/nftmarketd/nftmarketd/internal/core/id"

// Kind identifies the type of a serialized state entry. It is stored as the
// first byte of every record so iteration can classify entries without keys.
type Kind byte

const (
	KindAccount Kind = iota + 1
	KindAsset
	KindCollection
	KindListing
	KindPlan
	KindHeader
)

// String returns the entry kind name.
func (k Kind) String() string {
	switch k {
	case KindAccount:
		return "AccountRoot"
	case KindAsset:
		return "Asset"
	case KindCollection:
		return "Collection"
	case KindListing:
		return "Listing"
	case KindPlan:
		return "InstallmentPlan"
	case KindHeader:
		return "LedgerHeader"
	default:
		return "Unknown"
	}
}

// AccountRoot holds an account's funds. Balance is freely transferable,
// Reserved backs deposits and installment escrow and cannot be spent.
type AccountRoot struct {
	Address  string `json:"address"`
	Balance  uint64 `json:"balance"`
	Reserved uint64 `json:"reserved"`
}

// RoyaltyShare routes a percentage of every sale price to a beneficiary.
type RoyaltyShare struct {
	Beneficiary string `json:"beneficiary"`
	Percent     uint8  `json:"percent"`
}

// Asset is a non-fungible token record.
type Asset struct {
	ID          id.ID  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Media       string `json:"media"`
	MediaHash   string `json:"media_hash"`

	Creator string `json:"creator"`
	Owner   string `json:"owner"`

	// InstallmentAccount is the payer of the open installment plan,
	// empty when the asset is not under installment.
	InstallmentAccount string `json:"installment_account,omitempty"`

	Royalty      []RoyaltyShare `json:"royalty,omitempty"`
	CollectionID id.ID          `json:"collection_id"`
	Deposit      uint64         `json:"deposit"`
	Burnt        bool           `json:"burnt,omitempty"`
}

// PayloadSize is the byte count the asset's storage deposit is charged for.
func (a *Asset) PayloadSize() uint64 {
	return uint64(len(a.Title) + len(a.Description) + len(a.Media) + len(a.MediaHash))
}

// RoyaltyTotal returns the sum of all royalty percentages.
func (a *Asset) RoyaltyTotal() uint32 {
	var total uint32
	for _, share := range a.Royalty {
		total += uint32(share.Percent)
	}
	return total
}

// Collection groups assets under a creator-owned record.
type Collection struct {
	ID          id.ID  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	Deposit     uint64 `json:"deposit"`
}

// PayloadSize is the byte count the collection's storage deposit is charged for.
func (c *Collection) PayloadSize() uint64 {
	return uint64(len(c.Title) + len(c.Description))
}

// Listing is an asset's sale offer. At most one exists per asset.
// HasPrice distinguishes an unpriced listing (not yet buyable) from price 0.
type Listing struct {
	AssetID       id.ID  `json:"asset_id"`
	Lister        string `json:"lister"`
	Price         uint64 `json:"price"`
	HasPrice      bool   `json:"has_price"`
	InInstallment bool   `json:"in_installment,omitempty"`
	Deposit       uint64 `json:"deposit"`
	Expires       uint64 `json:"expires"`
}

// InstallmentPlan tracks a layaway purchase in progress. Paid funds sit
// reserved on the payer until the plan completes or expires.
type InstallmentPlan struct {
	AssetID       id.ID  `json:"asset_id"`
	Payer         string `json:"payer"`
	CreatedAt     uint64 `json:"created_at"`
	LastPaidAt    uint64 `json:"last_paid_at"`
	Paid          uint64 `json:"paid"`
	PeriodsLeft   uint32 `json:"periods_left"`
	NextPayAmount uint64 `json:"next_pay_amount"`
}

// Header is the singleton ledger header entry.
type Header struct {
	Seq       uint32 `json:"seq"`
	CloseTime uint64 `json:"close_time"`
}
