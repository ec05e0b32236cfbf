package tx

import "encoding/json"

// FromJSON creates an Operation from a JSON object. The "type" field
// selects the concrete operation type.
func FromJSON(data []byte) (Operation, error) {
	var raw struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	opType, ok := TypeFromName(raw.Type)
	if !ok {
		return nil, ErrUnknownOperation
	}

	op, err := NewFromType(opType)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, op); err != nil {
		return nil, err
	}
	return op, nil
}

// NewFromType creates a zero-value operation of the given type.
func NewFromType(opType Type) (Operation, error) {
	switch opType {
	case TypeAssetMint:
		return &AssetMint{BaseOp: NewBaseOp(TypeAssetMint, "")}, nil
	case TypeAssetEdit:
		return &AssetEdit{BaseOp: NewBaseOp(TypeAssetEdit, "")}, nil
	case TypeAssetBurn:
		return &AssetBurn{BaseOp: NewBaseOp(TypeAssetBurn, "")}, nil
	case TypeCollectionCreate:
		return &CollectionCreate{BaseOp: NewBaseOp(TypeCollectionCreate, "")}, nil
	case TypeCollectionEdit:
		return &CollectionEdit{BaseOp: NewBaseOp(TypeCollectionEdit, "")}, nil
	case TypeCollectionDestroy:
		return &CollectionDestroy{BaseOp: NewBaseOp(TypeCollectionDestroy, "")}, nil
	case TypeListForSale:
		return &ListForSale{BaseOp: NewBaseOp(TypeListForSale, "")}, nil
	case TypeSetPrice:
		return &SetPrice{BaseOp: NewBaseOp(TypeSetPrice, "")}, nil
	case TypeBuyNow:
		return &BuyNow{BaseOp: NewBaseOp(TypeBuyNow, "")}, nil
	case TypePayInstallment:
		return &PayInstallment{BaseOp: NewBaseOp(TypePayInstallment, "")}, nil
	default:
		return nil, ErrUnknownOperation
	}
}

// ToJSON serializes an operation back to its wire form.
func ToJSON(op Operation) ([]byte, error) {
	return json.Marshal(op)
}

// SupportedTypes returns all registered operation types.
func SupportedTypes() []Type {
	return []Type{
		TypeAssetMint,
		TypeAssetEdit,
		TypeAssetBurn,
		TypeCollectionCreate,
		TypeCollectionEdit,
		TypeCollectionDestroy,
		TypeListForSale,
		TypeSetPrice,
		TypeBuyNow,
		TypePayInstallment,
	}
}
