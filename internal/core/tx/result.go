package tx

import "fmt"

// Result is an operation result code.
//
// Codes are grouped by family:
//
//	0            success
//	100..199     not found
//	200..299     authorization
//	300..399     duplicate
//	400..499     state conflict
//	500..599     validation
//	600..699     arithmetic
//	negative     internal / malformed submissions
type Result int

const (
	OK Result = 0

	// Not found (100-199)
	ErrNoAccount          Result = 100
	ErrAssetNotFound      Result = 101
	ErrCollectionNotFound Result = 102
	ErrListingNotFound    Result = 103
	ErrPlanNotFound       Result = 104

	// Authorization (200-299)
	ErrBadOrigin Result = 200
	ErrNotOwner  Result = 201

	// Duplicate (300-399)
	ErrDuplicateAsset      Result = 300
	ErrDuplicateCollection Result = 301

	// State conflict (400-499)
	ErrNotSelling         Result = 400
	ErrInInstallment      Result = 401
	ErrBurnt              Result = 402
	ErrTransferToSelf     Result = 403
	ErrCollectionNotEmpty Result = 404

	// Validation (500-599)
	ErrPeriodsOutOfRange   Result = 500
	ErrInsufficientFunds   Result = 501
	ErrInsufficientPayment Result = 502
	ErrBadRoyalty          Result = 503
	ErrEmptyTitle          Result = 504

	// Arithmetic (600-699)
	ErrArithmetic Result = 600

	// Internal (negative). These indicate engine or storage faults, or
	// submissions that never reached state checks.
	ErrInternal  Result = -100
	ErrMalformed Result = -200
)

// String returns the code name.
func (r Result) String() string {
	switch r {
	case OK:
		return "okSUCCESS"
	case ErrNoAccount:
		return "errNO_ACCOUNT"
	case ErrAssetNotFound:
		return "errASSET_NOT_FOUND"
	case ErrCollectionNotFound:
		return "errCOLLECTION_NOT_FOUND"
	case ErrListingNotFound:
		return "errLISTING_NOT_FOUND"
	case ErrPlanNotFound:
		return "errPLAN_NOT_FOUND"
	case ErrBadOrigin:
		return "errBAD_ORIGIN"
	case ErrNotOwner:
		return "errNOT_OWNER"
	case ErrDuplicateAsset:
		return "errDUPLICATE_ASSET"
	case ErrDuplicateCollection:
		return "errDUPLICATE_COLLECTION"
	case ErrNotSelling:
		return "errNOT_SELLING"
	case ErrInInstallment:
		return "errIN_INSTALLMENT"
	case ErrBurnt:
		return "errBURNT"
	case ErrTransferToSelf:
		return "errTRANSFER_TO_SELF"
	case ErrCollectionNotEmpty:
		return "errCOLLECTION_NOT_EMPTY"
	case ErrPeriodsOutOfRange:
		return "errPERIODS_OUT_OF_RANGE"
	case ErrInsufficientFunds:
		return "errINSUFFICIENT_FUNDS"
	case ErrInsufficientPayment:
		return "errINSUFFICIENT_PAYMENT"
	case ErrBadRoyalty:
		return "errBAD_ROYALTY"
	case ErrEmptyTitle:
		return "errEMPTY_TITLE"
	case ErrArithmetic:
		return "errARITHMETIC"
	case ErrInternal:
		return "errINTERNAL"
	case ErrMalformed:
		return "errMALFORMED"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// IsSuccess reports whether the operation was applied.
func (r Result) IsSuccess() bool {
	return r == OK
}

// IsNotFound reports whether a referenced entry was missing.
func (r Result) IsNotFound() bool {
	return r >= 100 && r < 200
}

// IsAuthorization reports a caller identity failure.
func (r Result) IsAuthorization() bool {
	return r >= 200 && r < 300
}

// IsDuplicate reports an identifier collision.
func (r Result) IsDuplicate() bool {
	return r >= 300 && r < 400
}

// IsStateConflict reports that current state forbids the operation.
func (r Result) IsStateConflict() bool {
	return r >= 400 && r < 500
}

// IsValidation reports a semantically invalid submission.
func (r Result) IsValidation() bool {
	return r >= 500 && r < 600
}

// IsArithmetic reports an overflow or division guard trip.
func (r Result) IsArithmetic() bool {
	return r >= 600 && r < 700
}

// IsInternal reports an engine or storage fault.
func (r Result) IsInternal() bool {
	return r < 0
}

// Message returns a human-readable description of the result.
func (r Result) Message() string {
	switch r {
	case OK:
		return "The operation was applied."
	case ErrNoAccount:
		return "The submitting account does not exist."
	case ErrAssetNotFound:
		return "The asset does not exist or has been burnt."
	case ErrCollectionNotFound:
		return "The collection does not exist."
	case ErrListingNotFound:
		return "The asset is not listed for sale."
	case ErrPlanNotFound:
		return "No installment plan is open for the asset."
	case ErrBadOrigin:
		return "The operation carries no submitting account."
	case ErrNotOwner:
		return "The submitting account does not own the record."
	case ErrDuplicateAsset:
		return "An asset with the generated identifier already exists."
	case ErrDuplicateCollection:
		return "A collection with the generated identifier already exists."
	case ErrNotSelling:
		return "The asset has no priced listing."
	case ErrInInstallment:
		return "The asset is locked by an installment plan."
	case ErrBurnt:
		return "The asset has been burnt."
	case ErrTransferToSelf:
		return "The buyer already owns the asset."
	case ErrCollectionNotEmpty:
		return "The collection still contains assets."
	case ErrPeriodsOutOfRange:
		return "Installment periods must be between one and six."
	case ErrInsufficientFunds:
		return "The account balance cannot cover the amount and stay alive."
	case ErrInsufficientPayment:
		return "The payment is below the required installment amount."
	case ErrBadRoyalty:
		return "Royalty percentages exceed one hundred percent."
	case ErrEmptyTitle:
		return "A title is required."
	case ErrArithmetic:
		return "An amount computation overflowed."
	case ErrInternal:
		return "Internal engine or storage fault."
	case ErrMalformed:
		return "The submission is ill-formed."
	default:
		return r.String()
	}
}
