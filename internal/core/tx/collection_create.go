package tx

import (
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// CollectionCreate creates a new collection owned by the caller.
type CollectionCreate struct {
	BaseOp
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Validate performs stateless checks.
func (c *CollectionCreate) Validate() error {
	if err := c.Common.Validate(); err != nil {
		return err
	}
	if c.Title == "" {
		return ErrMissingTitle
	}
	return nil
}

// Apply creates the collection record.
func (c *CollectionCreate) Apply(ctx *ApplyContext) Result {
	coll := &sle.Collection{
		ID:          ctx.NewID(),
		Title:       c.Title,
		Description: c.Description,
		Creator:     c.Account,
	}
	coll.Deposit = ctx.DataDeposit(coll.PayloadSize())

	collKey := keylet.Collection(coll.ID)
	exists, err := ctx.View.Exists(collKey)
	if err != nil {
		return ErrInternal
	}
	if exists {
		return ErrDuplicateCollection
	}

	if res := reserve(ctx, c.Account, coll.Deposit); !res.IsSuccess() {
		return res
	}

	data, serr := sle.SerializeCollection(coll)
	if serr != nil {
		return ErrInternal
	}
	if err := ctx.View.Insert(collKey, data); err != nil {
		return ErrInternal
	}

	ctx.Emit(Event{Kind: EventCollectionCreated, Collection: coll.ID, Account: c.Account})
	return OK
}
