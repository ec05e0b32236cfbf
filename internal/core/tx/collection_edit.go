package tx

import "github.com/nftmarketd/nftmarketd/internal/core/id"

// CollectionEdit replaces a collection's title and description and
// re-sizes its deposit.
type CollectionEdit struct {
	BaseOp
	CollectionID id.ID  `json:"collection_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
}

// Validate performs stateless checks.
func (e *CollectionEdit) Validate() error {
	if err := e.Common.Validate(); err != nil {
		return err
	}
	if e.CollectionID.IsZero() {
		return ErrMissingCollection
	}
	if e.Title == "" {
		return ErrMissingTitle
	}
	return nil
}

// Apply rewrites the collection record.
func (e *CollectionEdit) Apply(ctx *ApplyContext) Result {
	coll, res := loadCollection(ctx.View, e.CollectionID)
	if !res.IsSuccess() {
		return res
	}
	if coll.Creator != e.Account {
		return ErrNotOwner
	}

	coll.Title = e.Title
	coll.Description = e.Description

	oldDeposit := coll.Deposit
	coll.Deposit = ctx.DataDeposit(coll.PayloadSize())

	if res := unreserve(ctx, e.Account, oldDeposit); !res.IsSuccess() {
		return res
	}
	if res := reserve(ctx, e.Account, coll.Deposit); !res.IsSuccess() {
		return res
	}
	if res := storeCollection(ctx.View, coll); !res.IsSuccess() {
		return res
	}

	ctx.Emit(Event{Kind: EventCollectionEdited, Collection: coll.ID, Account: e.Account})
	return OK
}
