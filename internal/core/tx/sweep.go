package tx

import (
	"fmt"

	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// SweepReport summarizes one expiry sweep pass.
type SweepReport struct {
	// ListingsRemoved counts listings removed for passing their expiry.
	ListingsRemoved int

	// PlansExpired counts installment plans force-closed for inactivity.
	PlansExpired int

	// Skipped lists entries that could not be swept, with the reason.
	// The caller decides how to surface them; the sweep moves on.
	Skipped []string

	// Events emitted by the sweep.
	Events []Event
}

// SweepExpired removes every listing past its expiry and force-closes
// every installment plan inactive for more than PlanExpirySeconds.
// An expired plan refunds the payer's reserved payments in full and takes
// its listing down with it. Each entry is swept in its own buffered
// write-set, so one bad record never blocks the rest; re-sweeping an
// already-removed entry is a no-op.
func (e *Engine) SweepExpired(now uint64) (*SweepReport, error) {
	report := &SweepReport{}

	var listings []*sle.Listing
	var plans []*sle.InstallmentPlan
	err := e.view.ForEach(func(key [32]byte, data []byte) bool {
		switch sle.KindOf(data) {
		case sle.KindListing:
			listing, perr := sle.ParseListing(data)
			if perr != nil {
				report.Skipped = append(report.Skipped, fmt.Sprintf("listing %x: %v", key[:8], perr))
				return true
			}
			listings = append(listings, listing)
		case sle.KindPlan:
			plan, perr := sle.ParsePlan(data)
			if perr != nil {
				report.Skipped = append(report.Skipped, fmt.Sprintf("plan %x: %v", key[:8], perr))
				return true
			}
			plans = append(plans, plan)
		}
		return true
	})
	if err != nil {
		return report, err
	}

	// Expired plans first: their listings go down with them, which keeps
	// the listing pass from touching installment-locked listings.
	for _, plan := range plans {
		if now < plan.CreatedAt || now-plan.CreatedAt <= PlanExpirySeconds {
			continue
		}
		if res := e.sweepPlan(plan, report); !res.IsSuccess() {
			report.Skipped = append(report.Skipped, fmt.Sprintf("plan for asset %s: %s", plan.AssetID, res))
		}
	}

	for _, listing := range listings {
		if listing.InInstallment || listing.Expires >= now {
			continue
		}
		if res := e.sweepListing(listing, report); !res.IsSuccess() {
			report.Skipped = append(report.Skipped, fmt.Sprintf("listing for asset %s: %s", listing.AssetID, res))
		}
	}

	return report, nil
}

// sweepPlan force-closes one expired plan in its own write-set.
func (e *Engine) sweepPlan(plan *sle.InstallmentPlan, report *SweepReport) Result {
	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{View: table, Config: e.config, Engine: e, Metadata: &Metadata{}}

	exists, err := table.Exists(keylet.Plan(plan.AssetID))
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return OK
	}

	// The payer's accumulated payments go back to free balance.
	if res := unreserve(ctx, plan.Payer, plan.Paid); !res.IsSuccess() {
		return res
	}
	if err := table.Erase(keylet.Plan(plan.AssetID)); err != nil {
		return ErrInternal
	}

	listing, res := loadListing(table, plan.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if listing != nil {
		if res := unreserve(ctx, listing.Lister, listing.Deposit); !res.IsSuccess() {
			return res
		}
		if err := table.Erase(keylet.Listing(plan.AssetID)); err != nil {
			return ErrInternal
		}
	}

	// Unlock the asset if it still exists.
	assetData, err := table.Read(keylet.Asset(plan.AssetID))
	if err != nil {
		return ErrInternal
	}
	if assetData != nil {
		asset, perr := sle.ParseAsset(assetData)
		if perr != nil {
			return ErrInternal
		}
		asset.InstallmentAccount = ""
		if res := storeAsset(table, asset); !res.IsSuccess() {
			return res
		}
	}

	if err := table.Apply(); err != nil {
		return ErrInternal
	}

	report.PlansExpired++
	report.Events = append(report.Events, Event{
		Kind:    EventInstallmentExpired,
		Asset:   plan.AssetID,
		Account: plan.Payer,
		Amount:  plan.Paid,
	})
	return OK
}

// sweepListing removes one expired listing in its own write-set.
func (e *Engine) sweepListing(listing *sle.Listing, report *SweepReport) Result {
	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{View: table, Config: e.config, Engine: e, Metadata: &Metadata{}}

	exists, err := table.Exists(keylet.Listing(listing.AssetID))
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return OK
	}

	if res := unreserve(ctx, listing.Lister, listing.Deposit); !res.IsSuccess() {
		return res
	}
	if err := table.Erase(keylet.Listing(listing.AssetID)); err != nil {
		return ErrInternal
	}
	if err := table.Apply(); err != nil {
		return ErrInternal
	}

	report.ListingsRemoved++
	report.Events = append(report.Events, Event{
		Kind:    EventListingExpired,
		Asset:   listing.AssetID,
		Account: listing.Lister,
	})
	return OK
}
