// Package testing provides test infrastructure for marketplace operation
// testing.
//
// # Basic Usage
//
//	func TestSale(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    env.Fund(1000, "alice", "bob")
//
//	    coll := env.CreateCollection("alice", "Gallery")
//	    asset := env.MintAsset("alice", coll, "Piece", nil)
//
//	    price := uint64(100)
//	    env.Submit(&tx.ListForSale{
//	        BaseOp:  tx.NewBaseOp(tx.TypeListForSale, "alice"),
//	        AssetID: asset,
//	        Price:   &price,
//	    })
//	    env.Submit(&tx.BuyNow{BaseOp: tx.NewBaseOp(tx.TypeBuyNow, "bob"), AssetID: asset})
//	}
//
// TestEnv runs over an in-memory ledger with a manual clock, so
// time-dependent behavior (listing expiry, installment plan expiry) is
// driven explicitly with Advance and Sweep. Accounts are plain names; Fund
// creates them with a free balance.
package testing
