package tx

import "github.com/nftmarketd/nftmarketd/internal/core/id"

// ApplyContext provides the state and helpers an operation needs to apply
// itself. It is passed to Appliable.Apply().
type ApplyContext struct {
	// View is the buffered ledger view (the ApplyStateTable).
	View LedgerView

	// Account is the submitting account.
	Account string

	// Config holds engine configuration (deposits, close time, etc.).
	Config EngineConfig

	// Metadata collects the events the operation emits.
	Metadata *Metadata

	// Engine is the engine applying this operation.
	Engine *Engine

	opIndex uint32
	idSeq   uint32
}

// NewID derives a fresh identifier for this operation. Repeated calls
// within one operation yield distinct identifiers.
func (ctx *ApplyContext) NewID() id.ID {
	out := id.New(ctx.Config.Entropy, ctx.Config.LedgerSequence, ctx.opIndex<<8|ctx.idSeq)
	ctx.idSeq++
	return out
}

// Now returns the close time operations observe, in unix seconds.
func (ctx *ApplyContext) Now() uint64 {
	return ctx.Config.CloseTime
}

// Emit appends an event to the operation's metadata.
func (ctx *ApplyContext) Emit(ev Event) {
	ctx.Metadata.Events = append(ctx.Metadata.Events, ev)
}

// DataDeposit returns the reserve charged for storing size payload bytes.
func (ctx *ApplyContext) DataDeposit(size uint64) uint64 {
	return ctx.Config.DataDepositPerByte * size
}
