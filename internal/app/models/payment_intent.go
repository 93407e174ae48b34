package models

type PaymentIntentKind string

const (
	IntentCard           PaymentIntentKind = "card"
	IntentBankRedirect   PaymentIntentKind = "bank_redirect"
	IntentManualTransfer PaymentIntentKind = "manual_transfer"
)

// PaymentIntent is a tagged union: exactly one of Card, BankRedirect or
// ManualTransfer is set and Kind names it.
type PaymentIntent struct {
	Kind           PaymentIntentKind     `json:"kind"`
	Card           *CardIntent           `json:"card,omitempty"`
	BankRedirect   *BankRedirectIntent   `json:"bank_redirect,omitempty"`
	ManualTransfer *ManualTransferIntent `json:"manual_transfer,omitempty"`
	Amount         int64                 `json:"amount"`
	Currency       string                `json:"currency"`
	Reference      string                `json:"reference"`
}

type CardIntent struct {
	ClientSecret string `json:"client_secret"`
}

type BankRedirectIntent struct {
	Reference string `json:"reference"`
	BankURL   string `json:"bank_url,omitempty"`
}

type ManualTransferIntent struct {
	Reference    string               `json:"reference"`
	Instructions TransferInstructions `json:"instructions"`
}

type TransferInstructions struct {
	Bank          string `json:"bank"`
	AccountType   string `json:"account_type"`
	AccountNumber string `json:"account_number"`
	Holder        string `json:"holder"`
	TaxID         string `json:"tax_id,omitempty"`
	Amount        int64  `json:"amount"`
}

// MatchesMethod reports whether the intent kind is the one the Order API
// must return for method.
func (p *PaymentIntent) MatchesMethod(method PaymentMethod) bool {
	switch method {
	case MethodCard:
		return p.Kind == IntentCard && p.Card != nil
	case MethodOnlineBanking:
		return p.Kind == IntentBankRedirect && p.BankRedirect != nil
	case MethodManualTransfer:
		return p.Kind == IntentManualTransfer && p.ManualTransfer != nil
	}
	return false
}
