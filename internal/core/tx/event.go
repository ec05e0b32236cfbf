package tx

import "github.com/nftmarketd/nftmarketd/internal/core/id"

// EventKind names an observable outcome of an operation.
type EventKind string

const (
	EventCollectionCreated   EventKind = "CollectionCreated"
	EventCollectionEdited    EventKind = "CollectionEdited"
	EventCollectionDestroyed EventKind = "CollectionDestroyed"
	EventAssetMinted         EventKind = "AssetMinted"
	EventAssetEdited         EventKind = "AssetEdited"
	EventAssetBurned         EventKind = "AssetBurned"
	EventListed              EventKind = "Listed"
	EventAlreadyOnSale       EventKind = "AlreadyOnSale"
	EventPriceSet            EventKind = "PriceSet"
	EventBought              EventKind = "Bought"
	EventTransferred         EventKind = "Transferred"
	EventInstallmentPaid     EventKind = "InstallmentPaid"
	EventInstallmentExpired  EventKind = "InstallmentExpired"
	EventListingExpired      EventKind = "ListingExpired"
)

// Event records one observable outcome. Fields not meaningful for a kind
// are left zero and omitted from JSON.
type Event struct {
	Kind       EventKind `json:"kind"`
	Asset      id.ID     `json:"asset,omitempty"`
	Collection id.ID     `json:"collection,omitempty"`
	Account    string    `json:"account,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Amount     uint64    `json:"amount,omitempty"`
}
