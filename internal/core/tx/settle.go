package tx

import "github.com/nftmarketd/nftmarketd/internal/core/sle"

// settle pays out a completed sale: each royalty share receives
// floor(price * percent / 100) from the buyer, the seller receives the
// remainder. Shares whose beneficiary is the seller are skipped, so the
// floor-division residue always lands with the seller and
// sum(payouts) == price exactly.
func settle(ctx *ApplyContext, asset *sle.Asset, seller, buyer string, price uint64) Result {
	var totalRoyalties uint64
	for _, share := range asset.Royalty {
		if share.Beneficiary == seller {
			continue
		}
		if price != 0 && uint64(share.Percent) > ^uint64(0)/price {
			return ErrArithmetic
		}
		amount := price * uint64(share.Percent) / 100
		if amount > price-totalRoyalties {
			return ErrArithmetic
		}
		if res := transferKeepAlive(ctx, buyer, share.Beneficiary, amount); !res.IsSuccess() {
			return res
		}
		totalRoyalties += amount
	}

	proceeds := price - totalRoyalties
	if res := transferKeepAlive(ctx, buyer, seller, proceeds); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{
		Kind:    EventBought,
		Asset:   asset.ID,
		From:    seller,
		To:      buyer,
		Amount:  price,
		Account: buyer,
	})
	return OK
}

// ceilDiv returns ceil(a / b). b must be positive.
func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
