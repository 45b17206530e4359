package retail

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"storefront/store"
)

// Attribute names shared between the engine, the stream handler and the
// persisted document layout.
const (
	AttrSaleIDs    = "saleIds"
	AttrStockIDs   = "stockIds"
	AttrCustomerID = "customerId"
	AttrItemID     = "itemId"
	AttrSupplierID = "supplierId"
)

// ItemType is the item category code.
type ItemType int16

const (
	ItemQLED ItemType = iota
	ItemOLED
	ItemLED
	ItemPlasma
	ItemLCD
)

// CustomerType is the customer category code.
type CustomerType int16

const (
	CustomerUnemployed CustomerType = iota
	CustomerRetired
	CustomerStudent
	CustomerWorker
)

// Item is a catalog entry. (model, brand) is logically unique. The saleIds and
// stockIds sets are caches of the child records referencing this item; the
// children's own foreign keys stay authoritative.
type Item struct {
	ID          string   `dynamodbav:"id" json:"id"`
	Model       string   `dynamodbav:"model" json:"model"`
	Brand       string   `dynamodbav:"brand" json:"brand"`
	Price       Money    `dynamodbav:"price" json:"price"`
	ReleaseDate Date     `dynamodbav:"releaseDate" json:"releaseDate"`
	Type        ItemType `dynamodbav:"type" json:"type"`
	Smart       bool     `dynamodbav:"isSmart" json:"isSmart"`
	SaleIDs     []string `dynamodbav:"saleIds,stringset,omitempty" json:"saleIds,omitempty"`
	StockIDs    []string `dynamodbav:"stockIds,stringset,omitempty" json:"stockIds,omitempty"`
}

// Customer is a registered buyer. Email is logically unique.
type Customer struct {
	ID               string       `dynamodbav:"id" json:"id"`
	FirstName        string       `dynamodbav:"firstName" json:"firstName"`
	LastName         string       `dynamodbav:"lastName" json:"lastName"`
	Email            string       `dynamodbav:"email" json:"email"`
	Phone            string       `dynamodbav:"phone" json:"phone"`
	RegistrationDate Date         `dynamodbav:"registrationDate" json:"registrationDate"`
	Type             CustomerType `dynamodbav:"type" json:"type"`
	SaleIDs          []string     `dynamodbav:"saleIds,stringset,omitempty" json:"saleIds,omitempty"`
}

// Supplier is a stock source. Email is logically unique.
type Supplier struct {
	ID       string   `dynamodbav:"id" json:"id"`
	Name     string   `dynamodbav:"name" json:"name"`
	Phone    string   `dynamodbav:"phone" json:"phone"`
	Address  string   `dynamodbav:"address" json:"address"`
	Email    string   `dynamodbav:"email" json:"email"`
	StockIDs []string `dynamodbav:"stockIds,stringset,omitempty" json:"stockIds,omitempty"`
}

// Sale references exactly one customer and one item. The two foreign keys are
// the authority for which back-reference sets must contain this sale's id.
type Sale struct {
	ID         string `dynamodbav:"id" json:"id"`
	CustomerID string `dynamodbav:"customerId" json:"customerId"`
	ItemID     string `dynamodbav:"itemId" json:"itemId"`
	SaleDate   Date   `dynamodbav:"saleDate" json:"saleDate"`
	Quantity   int    `dynamodbav:"quantity" json:"quantity"`
	Total      Money  `dynamodbav:"total" json:"total"`
}

// StockEntry references exactly one item and one supplier.
type StockEntry struct {
	ID         string `dynamodbav:"id" json:"id"`
	ItemID     string `dynamodbav:"itemId" json:"itemId"`
	SupplierID string `dynamodbav:"supplierId" json:"supplierId"`
	EntryDate  Date   `dynamodbav:"entryDate" json:"entryDate"`
	Quantity   int    `dynamodbav:"quantity" json:"quantity"`
}

// Money is an exact decimal amount, persisted as a DynamoDB number.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// ParseMoney parses a decimal string such as "999.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// MarshalDynamoDBAttributeValue stores the amount as an exact number string.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads a number attribute back into a Money.
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("money: expected number attribute, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	m.Decimal = d
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date (no time of day), persisted as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MarshalDynamoDBAttributeValue stores the date as a "YYYY-MM-DD" string.
func (d Date) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: d.Format(dateLayout)}, nil
}

// UnmarshalDynamoDBAttributeValue reads a date string back into a Date.
func (d *Date) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return fmt.Errorf("date: expected string attribute, got %T", av)
	}
	parsed, err := ParseDate(s.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date: expected quoted string, got %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func marshalDoc(v any) (store.Doc, error) {
	doc, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return doc, nil
}

func unmarshalDoc(doc store.Doc, v any) error {
	if err := attributevalue.UnmarshalMap(doc, v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}
