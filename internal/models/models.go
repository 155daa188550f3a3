package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser - The back-office operator (logs into the dashboard)
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The oils we mill and sell (name only, pricing lives on the bill lines)
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Purchase - Raw material bought from a supplier (the bill header)
type Purchase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PartyName    string         `gorm:"size:120" json:"party_name"`
	PurchaseDate string         `gorm:"type:date" json:"purchase_date"`
	BillNo       string         `gorm:"index;size:40" json:"bill_no"`
	VoucherNo    string         `gorm:"size:40" json:"voucher_no"`
	PaymentType  string         `gorm:"size:10;default:credit" json:"payment_type"` // 'credit' or 'cash'
	Subtotal     float64        `json:"subtotal"`
	Discount     float64        `json:"discount"`
	GrandTotal   float64        `json:"grand_total"`
	Remarks      string         `json:"remarks"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// PurchaseItem - One product line on a purchase bill
type PurchaseItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PurchaseID uint           `gorm:"index" json:"purchase_id"`
	ProductID  uint           `json:"product_id"`
	Quantity   float64        `json:"quantity"`
	Rate       float64        `json:"rate"`
	Packing    string         `gorm:"size:60" json:"packing"` // free text, e.g. "15kg tin"
	Amount     float64        `json:"amount"`                 // quantity * rate, snapshot at save time
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Sale - Finished oil sold to a customer (the invoice header)
type Sale struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PartyName    string         `gorm:"size:120" json:"party_name"`
	PartyMobile  string         `gorm:"size:20" json:"party_mobile"`
	PartyAddress string         `gorm:"size:250" json:"party_address"`
	SaleDate     string         `gorm:"type:date" json:"sale_date"`
	BillNo       string         `gorm:"index;size:40" json:"bill_no"`
	VoucherNo    string         `gorm:"size:40" json:"voucher_no"`
	PaymentType  string         `gorm:"size:10;default:credit" json:"payment_type"`
	Subtotal     float64        `json:"subtotal"`
	Discount     float64        `json:"discount"`
	GrandTotal   float64        `json:"grand_total"`
	Remarks      string         `json:"remarks"`
	Items        []SaleItem     `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// SaleItem - One product line on a sales invoice
type SaleItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SaleID    uint           `gorm:"index" json:"sale_id"`
	ProductID uint           `json:"product_id"`
	Quantity  float64        `json:"quantity"`
	Rate      float64        `json:"rate"`
	Packing   string         `gorm:"size:60" json:"packing"`
	Amount    float64        `json:"amount"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BillCounter - Last reserved bill number per document type and financial year.
// The row is locked FOR UPDATE inside the create transaction so two
// simultaneous submissions cannot take the same number.
type BillCounter struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	DocType       string `gorm:"size:10;uniqueIndex:idx_doc_fy" json:"doc_type"` // 'sale' or 'purchase'
	FinancialYear string `gorm:"size:8;uniqueIndex:idx_doc_fy" json:"financial_year"`
	LastNumber    int    `json:"last_number"`
}

// Review - Customer testimonial shown on the public site
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReviewerName string    `gorm:"size:120" json:"reviewer_name"`
	Rating       int       `json:"rating"` // 1 to 5
	ReviewText   string    `json:"review_text"`
	ReviewDate   string    `gorm:"type:date" json:"review_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ContactMessage - Enquiry submitted through the public contact form
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120" json:"name"`
	Email       string    `gorm:"size:120" json:"email"`
	Contact     string    `gorm:"size:20" json:"contact"`
	Subject     string    `gorm:"size:200" json:"subject"`
	MessageText string    `json:"message_text"`
	Status      int       `json:"status"` // 0 = unread, 1 = read
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
