package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// PayInstallment pays toward a listed asset in up to six periods. Partial
// payments are reserved on the payer, never paid out, so an expired plan
// can refund them in full. The payment that reaches the listed price
// completes the sale: the accumulated funds are released, settlement runs
// for exactly the price and any excess stays with the payer.
type PayInstallment struct {
	BaseOp
	AssetID id.ID  `json:"asset_id"`
	Periods uint32 `json:"periods"`
	Amount  uint64 `json:"amount"`
}

// Validate performs stateless checks.
func (p *PayInstallment) Validate() error {
	if err := p.Common.Validate(); err != nil {
		return err
	}
	if p.AssetID.IsZero() {
		return ErrMissingAsset
	}
	if p.Periods < MinPeriods || p.Periods > MaxPeriods {
		return ErrBadPeriods
	}
	if p.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// Apply records the payment, opening, advancing or completing the plan.
func (p *PayInstallment) Apply(ctx *ApplyContext) Result {
	asset, res := loadAsset(ctx.View, p.AssetID)
	if !res.IsSuccess() {
		return res
	}

	listing, res := loadListing(ctx.View, p.AssetID)
	if !res.IsSuccess() {
		return res
	}
	if listing == nil || !listing.HasPrice {
		return ErrNotSelling
	}
	if asset.Owner == p.Account {
		return ErrTransferToSelf
	}

	plan, res := loadPlan(ctx.View, p.AssetID)
	if !res.IsSuccess() {
		return res
	}

	if plan == nil {
		return p.openPlan(ctx, asset, listing)
	}
	return p.advancePlan(ctx, asset, listing, plan)
}

// openPlan handles the first payment toward an asset.
func (p *PayInstallment) openPlan(ctx *ApplyContext, asset *sle.Asset, listing *sle.Listing) Result {
	if res := reserve(ctx, p.Account, p.Amount); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{
		Kind:    EventInstallmentPaid,
		Asset:   p.AssetID,
		Account: p.Account,
		Amount:  p.Amount,
	})

	if p.Amount >= listing.Price {
		// A single payment covering the price is an outright purchase.
		return completeInstallment(ctx, asset, listing, p.Account, p.Amount)
	}

	remaining := listing.Price - p.Amount
	periodsLeft := p.Periods - 1
	next := remaining
	if periodsLeft > 0 {
		next = ceilDiv(remaining, uint64(periodsLeft))
	}

	plan := &sle.InstallmentPlan{
		AssetID:       p.AssetID,
		Payer:         p.Account,
		CreatedAt:     ctx.Now(),
		LastPaidAt:    ctx.Now(),
		Paid:          p.Amount,
		PeriodsLeft:   periodsLeft,
		NextPayAmount: next,
	}
	data, err := sle.SerializePlan(plan)
	if err != nil {
		return ErrInternal
	}
	if err := ctx.View.Insert(keylet.Plan(p.AssetID), data); err != nil {
		return ErrInternal
	}

	listing.InInstallment = true
	if res := storeListing(ctx.View, listing); !res.IsSuccess() {
		return res
	}
	asset.InstallmentAccount = p.Account
	return storeAsset(ctx.View, asset)
}

// advancePlan handles a follow-up payment on an open plan.
func (p *PayInstallment) advancePlan(ctx *ApplyContext, asset *sle.Asset, listing *sle.Listing, plan *sle.InstallmentPlan) Result {
	if plan.Payer != p.Account {
		return ErrInInstallment
	}
	if p.Amount < plan.NextPayAmount {
		return ErrInsufficientPayment
	}
	if plan.Paid > ^uint64(0)-p.Amount {
		return ErrArithmetic
	}

	if res := reserve(ctx, p.Account, p.Amount); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{
		Kind:    EventInstallmentPaid,
		Asset:   p.AssetID,
		Account: p.Account,
		Amount:  p.Amount,
	})

	newPaid := plan.Paid + p.Amount
	if newPaid >= listing.Price {
		if err := ctx.View.Erase(keylet.Plan(p.AssetID)); err != nil {
			return ErrInternal
		}
		return completeInstallment(ctx, asset, listing, p.Account, newPaid)
	}

	remaining := listing.Price - newPaid
	if plan.PeriodsLeft > 1 {
		plan.PeriodsLeft--
	}
	if plan.PeriodsLeft == 0 {
		plan.NextPayAmount = remaining
	} else {
		plan.NextPayAmount = ceilDiv(remaining, uint64(plan.PeriodsLeft))
	}
	plan.Paid = newPaid
	plan.LastPaidAt = ctx.Now()
	return storePlan(ctx.View, plan)
}

// completeInstallment finishes the purchase: the payer's reserved total
// is released, settlement runs for exactly the listed price, ownership
// moves and the listing is cleaned up. Excess over the price stays with
// the payer as free balance.
func completeInstallment(ctx *ApplyContext, asset *sle.Asset, listing *sle.Listing, payer string, total uint64) Result {
	if res := unreserve(ctx, payer, total); !res.IsSuccess() {
		return res
	}

	seller := asset.Owner
	if res := settle(ctx, asset, seller, payer, listing.Price); !res.IsSuccess() {
		return res
	}

	asset.Owner = payer
	asset.InstallmentAccount = ""
	if res := storeAsset(ctx.View, asset); !res.IsSuccess() {
		return res
	}

	if res := unreserve(ctx, listing.Lister, listing.Deposit); !res.IsSuccess() {
		return res
	}
	if err := ctx.View.Erase(keylet.Listing(asset.ID)); err != nil {
		return ErrInternal
	}

	ctx.Emit(Event{
		Kind:  EventTransferred,
		Asset: asset.ID,
		From:  seller,
		To:    payer,
	})
	return OK
}
