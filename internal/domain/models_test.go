package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMarshalJSON_NumericMonetaryFields(t *testing.T) {
	discount := decimal.NewFromFloat(10.5)
	doc := Document{
		ID:             uuid.New(),
		DocumentNumber: "FAC-2026-09-001",
		DocumentType:   TypeInvoice,
		Items: Items{{
			ID:          "item-1",
			Description: "prestation",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromFloat(99.9),
		}},
		TaxRate:  decimal.NewFromInt(20),
		Discount: &discount,
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"taxRate":20`)
	assert.Contains(t, s, `"discount":10.5`)
	assert.Contains(t, s, `"quantity":2`)
	assert.Contains(t, s, `"unitPrice":99.9`)
	assert.NotContains(t, s, `"taxRate":"20"`)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.TaxRate.Equal(doc.TaxRate))
	require.NotNil(t, back.Discount)
	assert.True(t, back.Discount.Equal(discount))
	require.Len(t, back.Items, 1)
	assert.True(t, back.Items[0].UnitPrice.Equal(doc.Items[0].UnitPrice))
}

func TestDocumentMarshalJSON_OmitsAbsentAmounts(t *testing.T) {
	doc := Document{DocumentType: TypeQuote}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "advancePayment")
	assert.NotContains(t, string(data), "totalAmount")
	assert.NotContains(t, string(data), "discount")
}
