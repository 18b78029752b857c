package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the billed party snapshot embedded in a document.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
}

// Provider is the issuing party snapshot embedded in a document.
// SIRET is the 14-digit French business registration identifier.
type Provider struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	SIRET            string `json:"siret"`
	TVANumber        string `json:"tvaNumber,omitempty"`
	AcceptedPayments string `json:"acceptedPayments,omitempty"`
	MemberAGA        bool   `json:"memberAga,omitempty"`
}

// Item is a single billable line on a document.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Items is the ordered line-item list, stored as a jsonb column.
type Items []Item

// Document is an invoice or a quote. The ID is an ephemeral internal
// identifier; DocumentNumber is the durable human-facing reference and,
// once assigned, is never reused even after deletion.
type Document struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	DocumentNumber     string           `db:"document_number" json:"documentNumber"`
	DocumentType       DocumentType     `db:"document_type" json:"documentType"`
	IssueDate          string           `db:"issue_date" json:"issueDate"`
	DueDate            string           `db:"due_date" json:"dueDate"`
	Client             Client           `db:"client" json:"client"`
	Provider           Provider         `db:"provider" json:"provider"`
	Items              Items            `db:"items" json:"items"`
	TaxRate            decimal.Decimal  `db:"tax_rate" json:"taxRate"`
	Discount           *decimal.Decimal `db:"discount" json:"discount,omitempty"`
	AdvancePayment     *decimal.Decimal `db:"advance_payment" json:"advancePayment,omitempty"`
	Notes              string           `db:"notes" json:"notes,omitempty"`
	TotalAmount        *decimal.Decimal `db:"total_amount" json:"totalAmount,omitempty"`
	QuotationID        string           `db:"quotation_id" json:"quotationId,omitempty"`
	ConvertedToInvoice bool             `db:"converted_to_invoice" json:"convertedToInvoice,omitempty"`
	PaymentMethod      string           `db:"payment_method" json:"paymentMethod,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"-"`
	UpdatedAt          time.Time        `db:"updated_at" json:"-"`
}

// MarshalJSON emits quantity and unit price as JSON numbers, not
// quoted strings. decimal.Decimal accepts both forms on unmarshal, so
// no counterpart is needed.
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		Quantity  json.Number `json:"quantity"`
		UnitPrice json.Number `json:"unitPrice"`
	}{
		alias:     alias(i),
		Quantity:  json.Number(i.Quantity.String()),
		UnitPrice: json.Number(i.UnitPrice.String()),
	})
}

// MarshalJSON emits the monetary fields as JSON numbers. The exported
// form is the import/export contract; quoted amounts would not round-
// trip against it.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	aux := struct {
		alias
		TaxRate        json.Number  `json:"taxRate"`
		Discount       *json.Number `json:"discount,omitempty"`
		AdvancePayment *json.Number `json:"advancePayment,omitempty"`
		TotalAmount    *json.Number `json:"totalAmount,omitempty"`
	}{
		alias:   alias(d),
		TaxRate: json.Number(d.TaxRate.String()),
	}
	if d.Discount != nil {
		n := json.Number(d.Discount.String())
		aux.Discount = &n
	}
	if d.AdvancePayment != nil {
		n := json.Number(d.AdvancePayment.String())
		aux.AdvancePayment = &n
	}
	if d.TotalAmount != nil {
		n := json.Number(d.TotalAmount.String())
		aux.TotalAmount = &n
	}
	return json.Marshal(aux)
}

// Value implements driver.Valuer for jsonb storage.
func (c Client) Value() (driver.Value, error) { return json.Marshal(c) }

// Scan implements sql.Scanner for jsonb storage.
func (c *Client) Scan(src interface{}) error { return scanJSON(src, c) }

// Value implements driver.Valuer for jsonb storage.
func (p Provider) Value() (driver.Value, error) { return json.Marshal(p) }

// Scan implements sql.Scanner for jsonb storage.
func (p *Provider) Scan(src interface{}) error { return scanJSON(src, p) }

// Value implements driver.Valuer for jsonb storage.
func (i Items) Value() (driver.Value, error) {
	if i == nil {
		return json.Marshal(Items{})
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner for jsonb storage.
func (i *Items) Scan(src interface{}) error { return scanJSON(src, i) }

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
