package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// Record helpers shared by the operation types. Load helpers translate
// absence into the matching not-found code; store helpers translate
// serialization and view failures into ErrInternal.

// loadAsset reads an asset record. Burnt records are reported as not
// found; callers that need them read the raw record themselves.
func loadAsset(view LedgerView, assetID id.ID) (*sle.Asset, Result) {
	data, err := view.Read(keylet.Asset(assetID))
	if err != nil {
		return nil, ErrInternal
	}
	if data == nil {
		return nil, ErrAssetNotFound
	}
	asset, err := sle.ParseAsset(data)
	if err != nil {
		return nil, ErrInternal
	}
	if asset.Burnt {
		return nil, ErrAssetNotFound
	}
	return asset, OK
}

func storeAsset(view LedgerView, asset *sle.Asset) Result {
	data, err := sle.SerializeAsset(asset)
	if err != nil {
		return ErrInternal
	}
	if err := view.Update(keylet.Asset(asset.ID), data); err != nil {
		return ErrInternal
	}
	return OK
}

func insertAsset(view LedgerView, asset *sle.Asset) Result {
	exists, err := view.Exists(keylet.Asset(asset.ID))
	if err != nil {
		return ErrInternal
	}
	if exists {
		return ErrDuplicateAsset
	}
	data, err := sle.SerializeAsset(asset)
	if err != nil {
		return ErrInternal
	}
	if err := view.Insert(keylet.Asset(asset.ID), data); err != nil {
		return ErrInternal
	}
	return OK
}

func loadCollection(view LedgerView, collectionID id.ID) (*sle.Collection, Result) {
	data, err := view.Read(keylet.Collection(collectionID))
	if err != nil {
		return nil, ErrInternal
	}
	if data == nil {
		return nil, ErrCollectionNotFound
	}
	coll, err := sle.ParseCollection(data)
	if err != nil {
		return nil, ErrInternal
	}
	return coll, OK
}

func storeCollection(view LedgerView, coll *sle.Collection) Result {
	data, err := sle.SerializeCollection(coll)
	if err != nil {
		return ErrInternal
	}
	if err := view.Update(keylet.Collection(coll.ID), data); err != nil {
		return ErrInternal
	}
	return OK
}

// loadListing reads an asset's listing, or (nil, OK) if none exists.
func loadListing(view LedgerView, assetID id.ID) (*sle.Listing, Result) {
	data, err := view.Read(keylet.Listing(assetID))
	if err != nil {
		return nil, ErrInternal
	}
	if data == nil {
		return nil, OK
	}
	listing, err := sle.ParseListing(data)
	if err != nil {
		return nil, ErrInternal
	}
	return listing, OK
}

func storeListing(view LedgerView, listing *sle.Listing) Result {
	data, err := sle.SerializeListing(listing)
	if err != nil {
		return ErrInternal
	}
	if err := view.Update(keylet.Listing(listing.AssetID), data); err != nil {
		return ErrInternal
	}
	return OK
}

// loadPlan reads an asset's installment plan, or (nil, OK) if none exists.
func loadPlan(view LedgerView, assetID id.ID) (*sle.InstallmentPlan, Result) {
	data, err := view.Read(keylet.Plan(assetID))
	if err != nil {
		return nil, ErrInternal
	}
	if data == nil {
		return nil, OK
	}
	plan, err := sle.ParsePlan(data)
	if err != nil {
		return nil, ErrInternal
	}
	return plan, OK
}

func storePlan(view LedgerView, plan *sle.InstallmentPlan) Result {
	data, err := sle.SerializePlan(plan)
	if err != nil {
		return ErrInternal
	}
	if err := view.Update(keylet.Plan(plan.AssetID), data); err != nil {
		return ErrInternal
	}
	return OK
}

// collectionHasAssets scans for any live asset referencing the collection.
func collectionHasAssets(view LedgerView, collectionID id.ID) (bool, Result) {
	found := false
	err := view.ForEach(func(key [32]byte, data []byte) bool {
		if sle.KindOf(data) != sle.KindAsset {
			return true
		}
		asset, perr := sle.ParseAsset(data)
		if perr != nil {
			return true
		}
		if asset.CollectionID == collectionID && !asset.Burnt {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, ErrInternal
	}
	return found, OK
}
