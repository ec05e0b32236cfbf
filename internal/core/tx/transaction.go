package tx

import "errors"

// Validation errors returned by Operation.Validate. The engine maps these
// to result codes in preflight via parseValidationError.
var (
	ErrMissingAccount    = errors.New("errBAD_ORIGIN: missing submitting account")
	ErrMissingTitle      = errors.New("errEMPTY_TITLE: title is required")
	ErrRoyaltyOverflow   = errors.New("errBAD_ROYALTY: royalty percentages exceed 100")
	ErrBadPeriods        = errors.New("errPERIODS_OUT_OF_RANGE: periods must be in [1,6]")
	ErrMissingAsset      = errors.New("errMALFORMED: missing asset identifier")
	ErrMissingCollection = errors.New("errMALFORMED: missing collection identifier")
	ErrZeroAmount        = errors.New("errMALFORMED: amount must be positive")
	ErrUnknownOperation  = errors.New("unknown operation type")
	ErrNotAppliable      = errors.New("operation does not implement Appliable")
)

// Operation is the interface all operation types implement.
type Operation interface {
	// OpType returns the operation type.
	OpType() Type

	// GetCommon returns the fields shared by every operation.
	GetCommon() *Common

	// Validate performs stateless checks on the operation's own fields.
	Validate() error
}

// Appliable is implemented by operation types that apply themselves to
// ledger state. All registered operations implement it.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Common holds the fields shared by all operation types. Account is the
// caller; the surface trusts it to have been authenticated upstream.
type Common struct {
	Account string `json:"account"`
	Type    string `json:"type"`
}

// Validate checks the common fields.
func (c *Common) Validate() error {
	if c.Account == "" {
		return ErrMissingAccount
	}
	return nil
}

// BaseOp provides the common-field plumbing for operation types.
type BaseOp struct {
	Common
	opType Type
}

// OpType returns the operation type.
func (b *BaseOp) OpType() Type {
	return b.opType
}

// GetCommon returns the common operation fields.
func (b *BaseOp) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base operation.
func (b *BaseOp) Validate() error {
	return b.Common.Validate()
}

// NewBaseOp creates the base for an operation of the given type.
func NewBaseOp(opType Type, account string) BaseOp {
	return BaseOp{
		Common: Common{
			Account: account,
			Type:    opType.String(),
		},
		opType: opType,
	}
}
