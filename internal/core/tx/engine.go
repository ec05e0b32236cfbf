package tx

import (
	"strings"

	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
)

// PlanExpirySeconds is the inactivity window after which an installment
// plan is force-closed by the sweep: 30 days.
const PlanExpirySeconds uint64 = 2_592_000

// MinPeriods and MaxPeriods bound the declared installment period count.
const (
	MinPeriods uint32 = 1
	MaxPeriods uint32 = 6
)

// EngineConfig holds configuration for the operation engine.
type EngineConfig struct {
	// DataDepositPerByte is the reserve charged per payload byte when
	// storing assets and collections.
	DataDepositPerByte uint64

	// ListingDeposit is the flat reserve charged for a sale listing.
	ListingDeposit uint64

	// ExistentialDeposit is the minimum balance a transfer must leave
	// on the paying account.
	ExistentialDeposit uint64

	// ListingDuration is the lifetime stamped on new listings, in seconds.
	ListingDuration uint64

	// RetainBurnt keeps burnt asset records (marked Burnt) instead of
	// hard-deleting them.
	RetainBurnt bool

	// LedgerSequence is the sequence of the ledger being built.
	LedgerSequence uint32

	// CloseTime is the wall-clock time operations observe, unix seconds.
	CloseTime uint64

	// Entropy seeds identifier generation for this batch of operations.
	Entropy []byte
}

// LedgerView provides read/write access to ledger state.
type LedgerView interface {
	// Read reads a ledger entry. A missing entry yields (nil, nil).
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists.
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry.
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry.
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry.
	Erase(k keylet.Keylet) error

	// ForEach iterates over all state entries.
	// If fn returns false, iteration stops early.
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// ApplyResult contains the result of applying an operation.
type ApplyResult struct {
	// Result is the operation result code.
	Result Result

	// Applied indicates if the operation changed the ledger.
	Applied bool

	// Metadata carries the events the operation emitted.
	Metadata *Metadata

	// Message is a human-readable result message.
	Message string
}

// Metadata tracks the observable effects of an operation.
type Metadata struct {
	// Events emitted by the operation, in emission order.
	Events []Event

	// OperationIndex is the index of the operation within the ledger.
	OperationIndex uint32

	// OperationResult is the result code.
	OperationResult Result
}

// Engine processes operations against a ledger view.
type Engine struct {
	view   LedgerView
	config EngineConfig

	// opIndex counts operations applied by this engine, feeding
	// identifier generation.
	opIndex uint32
}

// NewEngine creates an operation engine over the given view.
func NewEngine(view LedgerView, config EngineConfig) *Engine {
	return &Engine{view: view, config: config}
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// SetCloseTime updates the close time subsequent operations observe.
func (e *Engine) SetCloseTime(t uint64) {
	e.config.CloseTime = t
}

// SetLedgerSequence updates the sequence of the ledger being built and
// resets the per-ledger operation index.
func (e *Engine) SetLedgerSequence(seq uint32) {
	e.config.LedgerSequence = seq
	e.opIndex = 0
}

// Apply processes one operation. Any result other than OK leaves the
// ledger untouched.
func (e *Engine) Apply(op Operation) ApplyResult {
	result := e.preflight(op)
	if !result.IsSuccess() {
		return ApplyResult{Result: result, Message: result.Message()}
	}

	result = e.preclaim(op)
	if !result.IsSuccess() {
		return ApplyResult{Result: result, Message: result.Message()}
	}

	metadata := &Metadata{OperationIndex: e.opIndex}
	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{
		View:     table,
		Account:  op.GetCommon().Account,
		Config:   e.config,
		Metadata: metadata,
		Engine:   e,
		opIndex:  e.opIndex,
	}

	appliable, ok := op.(Appliable)
	if !ok {
		return ApplyResult{Result: ErrInternal, Message: ErrNotAppliable.Error()}
	}
	result = appliable.Apply(ctx)
	metadata.OperationResult = result

	if !result.IsSuccess() {
		// The buffered table is discarded wholesale.
		return ApplyResult{Result: result, Metadata: metadata, Message: result.Message()}
	}

	if err := table.Apply(); err != nil {
		return ApplyResult{Result: ErrInternal, Message: "failed to apply state changes: " + err.Error()}
	}
	e.opIndex++

	return ApplyResult{
		Result:   result,
		Applied:  true,
		Metadata: metadata,
		Message:  result.Message(),
	}
}

// preflight performs stateless validation.
func (e *Engine) preflight(op Operation) Result {
	common := op.GetCommon()
	if common.Account == "" {
		return ErrBadOrigin
	}
	if err := op.Validate(); err != nil {
		return parseValidationError(err)
	}
	return OK
}

// preclaim validates the operation against current ledger state: the
// submitting account must exist.
func (e *Engine) preclaim(op Operation) Result {
	accountKey := keylet.Account(op.GetCommon().Account)
	exists, err := e.view.Exists(accountKey)
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return ErrNoAccount
	}
	return OK
}

// parseValidationError extracts a result code from a validation error.
// Validate implementations prefix their messages with the code name.
func parseValidationError(err error) Result {
	msg := err.Error()
	codes := map[string]Result{
		"errBAD_ORIGIN":           ErrBadOrigin,
		"errEMPTY_TITLE":          ErrEmptyTitle,
		"errBAD_ROYALTY":          ErrBadRoyalty,
		"errPERIODS_OUT_OF_RANGE": ErrPeriodsOutOfRange,
		"errMALFORMED":            ErrMalformed,
	}
	for prefix, result := range codes {
		if strings.HasPrefix(msg, prefix) {
			rest := msg[len(prefix):]
			if rest == "" || rest[0] == ':' || rest[0] == ' ' {
				return result
			}
		}
	}
	return ErrMalformed
}
