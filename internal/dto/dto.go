package dto

type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Username     string `json:"username"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type SubmitPurchaseRequest struct {
	CardID         string `json:"card_id"`
	ScreenshotPath string `json:"screenshot_path"`
}

type SubmitPurchaseResponse struct {
	PurchaseID string `json:"purchase_id"`
	// Amount the buyer must transfer: card price plus the verification fee.
	ExpectedAmount string `json:"expected_amount"`
	Status         string `json:"status"`
}

// VerifyRequest is the inbound verification contract. All four fields are
// required.
type VerifyRequest struct {
	ScreenshotURL  string `json:"screenshotUrl"`
	PurchaseID     string `json:"purchaseId"`
	CardTitle      string `json:"cardTitle"`
	ExpectedAmount string `json:"expectedAmount"`
}

type VerifyDetails struct {
	ExtractedAmount   string `json:"extractedAmount"`
	ExtractedCardName string `json:"extractedCardName"`
	ExpectedAmount    string `json:"expectedAmount"`
	ExpectedCardName  string `json:"expectedCardName"`
}

type VerifyResponse struct {
	Success  bool           `json:"success"`
	Verified bool           `json:"verified"`
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Details  *VerifyDetails `json:"details,omitempty"`
}

type WithdrawalRequest struct {
	Amount         float64           `json:"amount"`
	Method         string            `json:"method"` // bank, upi
	AccountDetails map[string]string `json:"account_details"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CardRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProfileResponse struct {
	ID                  string  `json:"id"`
	Email               string  `json:"email"`
	Username            string  `json:"username"`
	ReferralCode        string  `json:"referral_code"`
	ReferralUnlocked    bool    `json:"referral_unlocked"`
	TotalEarnings       float64 `json:"total_earnings"`
	WithdrawableBalance float64 `json:"withdrawable_balance"`
}

type EarningEntry struct {
	FromUsername string  `json:"from_username"`
	Amount       float64 `json:"amount"`
	CreatedAt    string  `json:"created_at"`
}

type AnalyticsResponse struct {
	TotalReferrals    int64          `json:"total_referrals"`
	ReferredPurchases int64          `json:"referred_purchases"`
	TotalEarnings     float64        `json:"total_earnings"`
	RecentEarnings    []EarningEntry `json:"recent_earnings"`
}

type PurchaseStats struct {
	Total           int64   `json:"total"`
	TotalAmount     float64 `json:"total_amount"`
	TotalCommission float64 `json:"total_commission"`
}
