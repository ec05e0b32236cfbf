package tx

import "fmt"

// Type represents an operation type code.
type Type uint16

const (
	TypeInvalid Type = 0xFFFF

	TypeAssetMint         Type = 0
	TypeAssetEdit         Type = 1
	TypeAssetBurn         Type = 2
	TypeCollectionCreate  Type = 3
	TypeCollectionEdit    Type = 4
	TypeCollectionDestroy Type = 5
	TypeListForSale       Type = 6
	TypeSetPrice          Type = 7
	TypeBuyNow            Type = 8
	TypePayInstallment    Type = 9
)

// String returns the wire name of the operation type.
func (t Type) String() string {
	switch t {
	case TypeAssetMint:
		return "asset_mint"
	case TypeAssetEdit:
		return "asset_edit"
	case TypeAssetBurn:
		return "asset_burn"
	case TypeCollectionCreate:
		return "collection_create"
	case TypeCollectionEdit:
		return "collection_edit"
	case TypeCollectionDestroy:
		return "collection_destroy"
	case TypeListForSale:
		return "list_for_sale"
	case TypeSetPrice:
		return "set_price"
	case TypeBuyNow:
		return "buy_now"
	case TypePayInstallment:
		return "pay_installment"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(t))
	}
}

// TypeFromName resolves a wire name to an operation type.
func TypeFromName(name string) (Type, bool) {
	switch name {
	case "asset_mint":
		return TypeAssetMint, true
	case "asset_edit":
		return TypeAssetEdit, true
	case "asset_burn":
		return TypeAssetBurn, true
	case "collection_create":
		return TypeCollectionCreate, true
	case "collection_edit":
		return TypeCollectionEdit, true
	case "collection_destroy":
		return TypeCollectionDestroy, true
	case "list_for_sale":
		return TypeListForSale, true
	case "set_price":
		return TypeSetPrice, true
	case "buy_now":
		return TypeBuyNow, true
	case "pay_installment":
		return TypePayInstallment, true
	default:
		return TypeInvalid, false
	}
}
