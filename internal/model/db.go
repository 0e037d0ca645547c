package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36;not null"` // uuid
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Username     string `gorm:"size:64;not null"`
	Role         string `gorm:"size:16;not null"` // user, admin

	ReferralCode string  `gorm:"size:16;uniqueIndex;not null"`
	ReferredBy   *string `gorm:"size:36;index"` // FK → user.id of the referrer

	IsBanned            bool    `gorm:"not null;default:false"`
	TotalEarnings       float64 `gorm:"not null;default:0"`
	WithdrawableBalance float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Card struct {
	ID          string  `gorm:"primaryKey;size:36;not null"`
	Title       string  `gorm:"size:64;uniqueIndex;not null"`
	Price       float64 `gorm:"not null"`
	Description string  `gorm:"size:255"`
	IsActive    bool    `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Purchase struct {
	ID     string `gorm:"primaryKey;size:36;not null"`
	UserID string `gorm:"size:36;index;not null"`
	CardID string `gorm:"size:36;index;not null"`

	// Snapshotted at purchase creation so later card edits do not rewrite
	// history.
	Amount               float64 `gorm:"not null"`
	CommissionToReferrer float64 `gorm:"not null;default:0"`
	ReferrerID           *string `gorm:"size:36;index"`

	PaymentScreenshotURL string `gorm:"size:512"` // storage path, set after upload
	PaymentMethod        string `gorm:"size:32"`  // manual
	VerificationStatus   string `gorm:"size:16;index;not null"` // pending, approved, rejected

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Withdrawal struct {
	ID     string  `gorm:"primaryKey;size:36;not null"`
	UserID string  `gorm:"size:36;index;not null"`
	Amount float64 `gorm:"not null"`
	Method string  `gorm:"size:16;not null"` // bank, upi

	// Destination details as submitted by the user (account number/IFSC or
	// UPI id), stored as a JSON blob.
	AccountDetails string `gorm:"size:512"`
	Status         string `gorm:"size:16;index;not null"` // pending, approved, rejected

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Earning struct {
	ID         string `gorm:"primaryKey;size:36;not null"`
	UserID     string `gorm:"size:36;index;not null"` // the referrer being credited
	FromUserID string `gorm:"size:36;not null"`       // the referred buyer
	// One credit per purchase, enforced at the schema level.
	PurchaseID string  `gorm:"size:36;uniqueIndex;not null"`
	Amount     float64 `gorm:"not null"`

	CreatedAt time.Time
}
