package checkout

import (
	"checkout-service/internal/app/models"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	errQuantityBelowOne = errors.New("quantity must be at least 1")
	errLineNotFound     = errors.New("cart line not found")
	errPriceRequired    = errors.New("unit price required to add a product")
	errUnknownAction    = errors.New("unknown cart action")
)

// CartChange is a single reducer input.
type CartChange struct {
	Type      models.CartActionType
	ProductID string
	Quantity  int
	UnitPrice int64
}

// ReduceCart returns the lines that result from applying change to lines.
// lines is never modified.
func ReduceCart(lines []models.CartLine, change CartChange) ([]models.CartLine, error) {
	next := make([]models.CartLine, len(lines))
	copy(next, lines)

	index := -1
	for i, line := range next {
		if line.ProductID == change.ProductID {
			index = i
			break
		}
	}

	switch change.Type {
	case models.CartActionAdd:
		quantity := change.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 1 {
			return nil, errQuantityBelowOne
		}
		if index >= 0 {
			next[index].Quantity += quantity
			if change.UnitPrice > 0 {
				next[index].UnitPrice = change.UnitPrice
			}
			return next, nil
		}
		if change.UnitPrice <= 0 {
			return nil, errPriceRequired
		}
		return append(next, models.CartLine{
			ProductID: change.ProductID,
			UnitPrice: change.UnitPrice,
			Quantity:  quantity,
		}), nil

	case models.CartActionIncrement:
		if index < 0 {
			return nil, errLineNotFound
		}
		next[index].Quantity++
		return next, nil

	case models.CartActionDecrement:
		if index < 0 {
			return nil, errLineNotFound
		}
		if next[index].Quantity <= 1 {
			return nil, errQuantityBelowOne
		}
		next[index].Quantity--
		return next, nil

	case models.CartActionSetQuantity:
		if index < 0 {
			return nil, errLineNotFound
		}
		if change.Quantity < 1 {
			return nil, errQuantityBelowOne
		}
		next[index].Quantity = change.Quantity
		return next, nil

	case models.CartActionRemove:
		if index < 0 {
			return nil, errLineNotFound
		}
		return append(next[:index], next[index+1:]...), nil

	case models.CartActionClear:
		return []models.CartLine{}, nil
	}
	return nil, errUnknownAction
}

// Subtotal is the sum of unit price times quantity.
func Subtotal(lines []models.CartLine) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return subtotal
}

// Total never goes below zero.
func Total(subtotal, discount int64) int64 {
	if discount >= subtotal {
		return 0
	}
	return subtotal - discount
}

// ApplyPrices replaces unit prices with the ones in prices. It reports whether
// any line changed. Products missing from prices keep their price.
func ApplyPrices(lines []models.CartLine, prices map[string]int64) ([]models.CartLine, bool) {
	next := make([]models.CartLine, len(lines))
	changed := false
	for i, line := range lines {
		next[i] = line
		if price, ok := prices[line.ProductID]; ok && price > 0 && price != line.UnitPrice {
			next[i].UnitPrice = price
			changed = true
		}
	}
	return next, changed
}

// OrderFingerprint identifies the order a session would create. Two submits
// with the same fingerprint describe the same order.
func OrderFingerprint(session *models.CheckoutSession) string {
	lines := make([]string, 0, len(session.Lines))
	for _, line := range session.Lines {
		lines = append(lines, line.ProductID+"x"+strconv.Itoa(line.Quantity)+"@"+strconv.FormatInt(line.UnitPrice, 10))
	}
	sort.Strings(lines)

	promotionCode := ""
	if session.Promotion != nil {
		promotionCode = session.Promotion.Code
	}

	parts := []string{
		string(session.Kind),
		session.PlanID,
		strings.Join(lines, ","),
		session.DeliveryAddressID,
		string(session.PaymentMethod),
		promotionCode,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
