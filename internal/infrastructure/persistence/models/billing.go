package models

import (
	"time"

	"github.com/dukahub/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptModel is the persistence model for the Receipt aggregate
type ReceiptModel struct {
	TenantAggregateModel
	ReceiptNumber string                `gorm:"type:varchar(50);not null;index"`
	FiscalNumber  string                `gorm:"type:varchar(50)"`
	SessionID     *uuid.UUID            `gorm:"type:uuid;index"`
	IssueDate     time.Time             `gorm:"not null;index"`
	Status        billing.ReceiptStatus `gorm:"type:varchar(20);not null;index"`
	CustomerName  string                `gorm:"type:varchar(200)"`
	PaymentMethod string                `gorm:"type:varchar(50)"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`

	Items []ReceiptItemModel `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt aggregate
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	receipt := &billing.Receipt{
		ReceiptNumber: m.ReceiptNumber,
		FiscalNumber:  m.FiscalNumber,
		SessionID:     m.SessionID,
		IssueDate:     m.IssueDate,
		Status:        m.Status,
		CustomerName:  m.CustomerName,
		PaymentMethod: m.PaymentMethod,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
	}
	m.PopulateTenantAggregateRoot(&receipt.TenantAggregateRoot)

	receipt.Items = make([]billing.ReceiptItem, len(m.Items))
	for i := range m.Items {
		receipt.Items[i] = *m.Items[i].ToDomain()
	}
	return receipt
}

// FromDomain populates the persistence model from a domain Receipt
func (m *ReceiptModel) FromDomain(r *billing.Receipt) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.ReceiptNumber = r.ReceiptNumber
	m.FiscalNumber = r.FiscalNumber
	m.SessionID = r.SessionID
	m.IssueDate = r.IssueDate
	m.Status = r.Status
	m.CustomerName = r.CustomerName
	m.PaymentMethod = r.PaymentMethod
	m.Subtotal = r.Subtotal
	m.TaxAmount = r.TaxAmount
	m.TotalAmount = r.TotalAmount

	m.Items = make([]ReceiptItemModel, len(r.Items))
	for i := range r.Items {
		m.Items[i].FromDomain(&r.Items[i])
	}
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt
func ReceiptModelFromDomain(r *billing.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}

// ReceiptItemModel is the persistence model for a receipt line
type ReceiptItemModel struct {
	BaseModel
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReceiptItemModel) TableName() string {
	return "receipt_items"
}

// ToDomain converts the persistence model to a domain ReceiptItem
func (m *ReceiptItemModel) ToDomain() *billing.ReceiptItem {
	return &billing.ReceiptItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		ReceiptID:   m.ReceiptID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
}

// FromDomain populates the persistence model from a domain ReceiptItem
func (m *ReceiptItemModel) FromDomain(item *billing.ReceiptItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.ReceiptID = item.ReceiptID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.LineTotal = item.LineTotal
}
