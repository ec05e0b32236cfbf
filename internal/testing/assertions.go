package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
)

// RequireBalance asserts that an account has the expected free balance.
func RequireBalance(t *testing.T, env *TestEnv, account string, expected uint64) {
	t.Helper()
	actual := env.Balance(account)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", account, expected, actual)
}

// RequireReserved asserts that an account has the expected reserved balance.
func RequireReserved(t *testing.T, env *TestEnv, account string, expected uint64) {
	t.Helper()
	actual := env.Reserved(account)
	require.Equal(t, expected, actual,
		"Account %s reserved mismatch: expected %d, got %d", account, expected, actual)
}

// RequireOwner asserts that an asset exists and is owned by the account.
func RequireOwner(t *testing.T, env *TestEnv, assetID id.ID, owner string) {
	t.Helper()
	asset := env.Asset(assetID)
	require.NotNil(t, asset, "Asset %s does not exist", assetID)
	require.Equal(t, owner, asset.Owner, "Asset %s owner mismatch", assetID)
}

// RequireSuccess asserts that an operation was applied.
func RequireSuccess(t *testing.T, result tx.ApplyResult) {
	t.Helper()
	require.True(t, result.Result.IsSuccess(),
		"Expected success, got %s: %s", result.Result, result.Message)
	require.True(t, result.Applied, "Operation succeeded but was not applied")
}

// RequireFail asserts that an operation failed with the given code.
func RequireFail(t *testing.T, result tx.ApplyResult, expected tx.Result) {
	t.Helper()
	require.Equal(t, expected, result.Result,
		"Expected %s, got %s: %s", expected, result.Result, result.Message)
	require.False(t, result.Applied, "Failed operation must not be applied")
}

// RequireEvent asserts that the result carries an event of the given kind
// and returns it.
func RequireEvent(t *testing.T, result tx.ApplyResult, kind tx.EventKind) tx.Event {
	t.Helper()
	require.NotNil(t, result.Metadata, "Result carries no metadata")
	for _, ev := range result.Metadata.Events {
		if ev.Kind == kind {
			return ev
		}
	}
	require.Failf(t, "Missing event", "No %s event in %v", kind, result.Metadata.Events)
	return tx.Event{}
}
