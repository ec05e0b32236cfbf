package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// Account balance primitives. All movements go through the buffered view,
// so a later failure in the same operation rolls them back.

// loadAccount reads an account root, or nil if it does not exist.
func loadAccount(view LedgerView, addr string) (*sle.AccountRoot, Result) {
	data, err := view.Read(keylet.Account(addr))
	if err != nil {
		return nil, ErrInternal
	}
	if data == nil {
		return nil, ErrNoAccount
	}
	acct, err := sle.ParseAccountRoot(data)
	if err != nil {
		return nil, ErrInternal
	}
	return acct, OK
}

// storeAccount writes an account root back through the view.
func storeAccount(view LedgerView, acct *sle.AccountRoot) Result {
	data, err := sle.SerializeAccountRoot(acct)
	if err != nil {
		return ErrInternal
	}
	if err := view.Update(keylet.Account(acct.Address), data); err != nil {
		return ErrInternal
	}
	return OK
}

// transferKeepAlive moves amount from one free balance to another. The
// source must keep at least the existential deposit after the transfer.
func transferKeepAlive(ctx *ApplyContext, from, to string, amount uint64) Result {
	if amount == 0 {
		return OK
	}
	if from == to {
		return OK
	}

	src, res := loadAccount(ctx.View, from)
	if !res.IsSuccess() {
		return res
	}
	if src.Balance < amount || src.Balance-amount < ctx.Config.ExistentialDeposit {
		return ErrInsufficientFunds
	}

	dst, res := loadAccount(ctx.View, to)
	if !res.IsSuccess() {
		return res
	}
	if dst.Balance > ^uint64(0)-amount {
		return ErrArithmetic
	}

	src.Balance -= amount
	dst.Balance += amount
	if res := storeAccount(ctx.View, src); !res.IsSuccess() {
		return res
	}
	return storeAccount(ctx.View, dst)
}

// reserve moves amount from an account's free balance to its reserved
// balance. The free balance must keep the existential deposit.
func reserve(ctx *ApplyContext, addr string, amount uint64) Result {
	if amount == 0 {
		return OK
	}
	acct, res := loadAccount(ctx.View, addr)
	if !res.IsSuccess() {
		return res
	}
	if acct.Balance < amount || acct.Balance-amount < ctx.Config.ExistentialDeposit {
		return ErrInsufficientFunds
	}
	if acct.Reserved > ^uint64(0)-amount {
		return ErrArithmetic
	}
	acct.Balance -= amount
	acct.Reserved += amount
	return storeAccount(ctx.View, acct)
}

// unreserve moves amount back from reserved to free balance, clamped to
// what is actually reserved.
func unreserve(ctx *ApplyContext, addr string, amount uint64) Result {
	if amount == 0 {
		return OK
	}
	acct, res := loadAccount(ctx.View, addr)
	if !res.IsSuccess() {
		return res
	}
	if amount > acct.Reserved {
		amount = acct.Reserved
	}
	acct.Reserved -= amount
	acct.Balance += amount
	return storeAccount(ctx.View, acct)
}
