package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftmarketd/nftmarketd/internal/core/sle"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
)

func TestFundAndBalances(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund(1000, "alice", "bob")
	env.Fund(500, "alice")

	assert.Equal(t, uint64(1500), env.Balance("alice"))
	assert.Equal(t, uint64(1000), env.Balance("bob"))
	assert.Equal(t, uint64(0), env.Reserved("alice"))
}

func TestCloseLedgerAdvancesSequence(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund(1000, "alice")

	require.Equal(t, uint32(0), env.Ledger.Sequence())
	seq := env.CloseLedger()
	require.Equal(t, uint32(1), seq)

	// State survives the close.
	assert.Equal(t, uint64(1000), env.Balance("alice"))
}

func TestFullSaleScenario(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund(1000, "alice", "bob", "carol")

	coll := env.CreateCollection("alice", "Gallery")
	asset := env.MintAsset("alice", coll, "Piece", []sle.RoyaltyShare{{Beneficiary: "carol", Percent: 10}})
	env.CloseLedger()

	price := uint64(200)
	env.Submit(&tx.ListForSale{
		BaseOp:  tx.NewBaseOp(tx.TypeListForSale, "alice"),
		AssetID: asset,
		Price:   &price,
	})
	require.NotNil(t, env.Listing(asset))

	env.Submit(&tx.BuyNow{BaseOp: tx.NewBaseOp(tx.TypeBuyNow, "bob"), AssetID: asset})

	assert.Equal(t, "bob", env.Asset(asset).Owner)
	assert.Nil(t, env.Listing(asset))
	assert.Equal(t, uint64(800), env.Balance("bob"))
	assert.Equal(t, uint64(1020), env.Balance("carol"))
}

func TestInstallmentExpiryScenario(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund(1000, "alice", "bob")

	coll := env.CreateCollection("alice", "Gallery")
	asset := env.MintAsset("alice", coll, "Piece", nil)

	price := uint64(100)
	env.Submit(&tx.ListForSale{
		BaseOp:  tx.NewBaseOp(tx.TypeListForSale, "alice"),
		AssetID: asset,
		Price:   &price,
	})
	env.Submit(&tx.PayInstallment{
		BaseOp:  tx.NewBaseOp(tx.TypePayInstallment, "bob"),
		AssetID: asset,
		Periods: 4,
		Amount:  30,
	})
	require.NotNil(t, env.Plan(asset))
	assert.Equal(t, uint64(30), env.Reserved("bob"))

	// One second short of the expiry window: the plan survives.
	env.Advance(30*24*time.Hour - time.Second)
	report := env.Sweep()
	assert.Zero(t, report.PlansExpired)
	require.NotNil(t, env.Plan(asset))

	// Past the window: refund and cleanup.
	env.Advance(2 * time.Second)
	report = env.Sweep()
	assert.Equal(t, 1, report.PlansExpired)
	assert.Nil(t, env.Plan(asset))
	assert.Nil(t, env.Listing(asset))
	assert.Equal(t, uint64(1000), env.Balance("bob"))
	assert.Equal(t, uint64(0), env.Reserved("bob"))
	assert.Equal(t, "alice", env.Asset(asset).Owner)
}

func TestSubmitExpect(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund(1000, "alice")

	env.SubmitExpect(&tx.CollectionCreate{
		BaseOp: tx.NewBaseOp(tx.TypeCollectionCreate, "ghost"),
		Title:  "Nope",
	}, tx.ErrNoAccount)
}
