package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/razorpay/razorpay-go"
)

var ErrGatewayUnavailable = errors.New("payment gateway is not configured")

// Order is the gateway session handed back to the client checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyID    string `json:"key"`
}

// Gateway wraps the Razorpay client. A zero-valued Gateway (missing keys)
// refuses every call instead of panicking, so deployments without payment
// keys still serve the rest of the API.
type Gateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	if keyID == "" || keySecret == "" {
		log.Println("Razorpay keys not configured, online payment disabled")
		return &Gateway{}
	}
	return &Gateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateOrder opens a gateway session for the given amount. The receipt
// ties the order back to the appointment being paid for.
func (g *Gateway) CreateOrder(amount float64, receipt string) (*Order, error) {
	if g.client == nil {
		return nil, ErrGatewayUnavailable
	}

	// Razorpay amounts are integer paise.
	amountInPaise := int64(amount * 100)
	data := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": "INR",
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok {
		return nil, errors.New("payment gateway returned no order id")
	}

	return &Order{
		ID:       orderID,
		Amount:   amountInPaise,
		Currency: "INR",
		Receipt:  receipt,
		KeyID:    g.keyID,
	}, nil
}

// FetchOrder loads an order back from the gateway. The receipt field
// carries the appointment id the order was opened for.
func (g *Gateway) FetchOrder(orderID string) (*Order, error) {
	if g.client == nil {
		return nil, ErrGatewayUnavailable
	}

	body, err := g.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment order: %w", err)
	}

	receipt, ok := body["receipt"].(string)
	if !ok || receipt == "" {
		return nil, errors.New("payment gateway returned no receipt")
	}

	order := &Order{
		ID:       orderID,
		Currency: "INR",
		Receipt:  receipt,
		KeyID:    g.keyID,
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	return order, nil
}

// VerifySignature checks the checkout callback: the gateway signs
// "<orderID>|<paymentID>" with the key secret.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	if g.keySecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
