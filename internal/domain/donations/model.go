package donations

import "time"

// Method
// @Enum cash, upi, card, bank_transfer, cheque
type Method string

const (
	MethodCash         Method = "cash"
	MethodUPI          Method = "upi"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodCheque       Method = "cheque"
)

var AllMethods = []Method{MethodCash, MethodUPI, MethodCard, MethodBankTransfer, MethodCheque}

func (m Method) Valid() bool {
	for _, known := range AllMethods {
		if m == known {
			return true
		}
	}
	return false
}

type Donor struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Donation struct {
	ID            string
	DonorID       string
	DonorName     string
	Amount        float64
	Method        Method
	Purpose       string
	AdmissionID   string
	ReceiptNumber string // RCPT-YYYY-NNNNNN
	DonatedAt     time.Time
	Notes         string

	// ReceiptKey apunta al PDF guardado; vacío hasta que se emite el recibo.
	ReceiptKey string
	CreatedAt  time.Time
}

// ListFilter: From inclusivo, To exclusivo.
type ListFilter struct {
	DonorID     string
	AdmissionID string
	From        *time.Time
	To          *time.Time
}

type MethodTotal struct {
	Count  int
	Amount float64
}

type Summary struct {
	Total    float64
	Count    int
	ByMethod map[Method]MethodTotal
}

// AnonymousDonor se usa cuando no hay donante ni nombre.
const AnonymousDonor = "Anonymous"
