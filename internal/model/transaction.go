package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TransactionType string

const (
	TxTypeDeposit  TransactionType = "DEPOSIT"
	TxTypeWithdraw TransactionType = "WITHDRAW"
	TxTypeTransfer TransactionType = "TRANSFER"
)

// SettlementMarker tags a transfer as an auction settlement. The pay service
// has no structured settlement reference, so the marker substring plus an
// exact amount match is how a settlement is recognized in history.
const SettlementMarker = "[Auction] 낙찰 완료"

type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	SenderID    string          `json:"sender_id"`
	ReceiverID  string          `json:"receiver_id"`
	Time        time.Time       `json:"time"`
	RequestKey  string          `json:"request_key"`
}

// Balance is a user's current pay-money holding.
type Balance struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// IsSettlementOf reports whether the transaction settles an auction that
// ended at the given final price.
func (t Transaction) IsSettlementOf(finalPrice int64) bool {
	return t.Type == TxTypeTransfer &&
		strings.Contains(t.Description, SettlementMarker) &&
		t.Amount == finalPrice
}

// SettlementDescription builds the transfer description carrying the marker
// and the settlement amount, e.g. "[Auction] 낙찰 완료 (15,000원)".
func SettlementDescription(amount int64) string {
	return fmt.Sprintf("%s (%s원)", SettlementMarker, FormatWon(amount))
}

// FormatWon renders an amount with thousands separators.
func FormatWon(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
