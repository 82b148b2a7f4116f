package model

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCanceled   OrderStatus = "CANCELED"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentPaid       PaymentStatus = "PAID"
	PaymentConfirmed  PaymentStatus = "CONFIRMED"
	PaymentOverdue    PaymentStatus = "OVERDUE"
	PaymentRefunded   PaymentStatus = "REFUNDED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCanceled   PaymentStatus = "CANCELED"
)

type PaymentMethod string

const (
	MethodPix        PaymentMethod = "PIX"
	MethodBoleto     PaymentMethod = "BOLETO"
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
	MethodDebitCard  PaymentMethod = "DEBIT_CARD"
)

// paymentTransitions is the legal transition table for Order.PaymentStatus.
// Status values arriving from webhooks or admin actions are validated here
// instead of by ad-hoc comparisons scattered across handlers.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentPaid, PaymentConfirmed, PaymentOverdue, PaymentFailed, PaymentCanceled},
	PaymentProcessing: {PaymentPaid, PaymentConfirmed, PaymentFailed, PaymentCanceled},
	PaymentPaid:       {PaymentConfirmed, PaymentRefunded},
	PaymentConfirmed:  {PaymentRefunded},
	PaymentOverdue:    {PaymentPaid, PaymentConfirmed, PaymentCanceled},
	PaymentRefunded:   {},
	PaymentFailed:     {PaymentPending, PaymentCanceled},
	PaymentCanceled:   {},
}

// CanTransition reports whether moving the payment status from s to next is
// legal. Same-state updates are allowed so webhook replays stay harmless.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	if s == next {
		return true
	}
	for _, t := range paymentTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further payment transitions are possible.
func (s PaymentStatus) Terminal() bool { return len(paymentTransitions[s]) == 0 }

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodPix, MethodBoleto, MethodCreditCard, MethodDebitCard:
		return true
	}
	return false
}

type Order struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string        `json:"user_id" gorm:"type:varchar(36);index:idx_order_user;not null"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(16);index;not null;default:'PENDING'"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);index;not null;default:'PENDING'"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(16);not null"`
	TotalCents    int64         `json:"total_cents" gorm:"not null"`

	// Gateway linkage. ChargeID is the provider-side charge identifier;
	// unique so a charge can never be attached to two orders.
	ChargeID   string `json:"charge_id,omitempty" gorm:"type:varchar(64);index:idx_order_charge"`
	PixPayload string `json:"pix_payload,omitempty" gorm:"type:text"`
	BoletoURL  string `json:"boleto_url,omitempty" gorm:"type:varchar(255)"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem references exactly one catalog product by kind + id.
type OrderItem struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string      `json:"order_id" gorm:"type:varchar(36);index:idx_item_order;not null"`
	Kind       ProductKind `json:"kind" gorm:"type:varchar(8);not null"`
	ProductID  string      `json:"product_id" gorm:"type:varchar(36);index:idx_item_product;not null"`
	Title      string      `json:"title" gorm:"type:varchar(200);not null"`
	PriceCents int64       `json:"price_cents" gorm:"not null"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
