package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"github.com/hiringbull/server/config"
	"github.com/hiringbull/server/model"
)

const currencyINR = "INR"

var (
	ErrGatewayNotConfigured   = errors.New("payment gateway is not configured")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrSignatureMismatch      = errors.New("invalid payment signature")
	ErrPaymentNotFound        = errors.New("no payment record for order")
	ErrPaymentAlreadyFailed   = errors.New("payment already marked as failed")
	ErrVerificationInProgress = errors.New("verification already in progress for this order")
)

// PaymentGateway creates orders with the external payment provider.
// Amounts are in the gateway's minor currency unit.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (orderID string, err error)
}

// PaymentStore is the persistence surface the payment flow needs.
// CompletePayment must apply the payment transition and the subscription
// activation atomically, guarded so that only a PENDING row transitions.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	PaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	CompletePayment(ctx context.Context, orderID, paymentID, signature, userID string, expiry time.Time) (applied bool, err error)
	FailPayment(ctx context.Context, orderID string) error
}

// OrderLocker serializes concurrent verification calls for the same order.
type OrderLocker interface {
	Acquire(ctx context.Context, orderID string) (release func(), acquired bool)
}

// Order is the gateway order descriptor returned to the client so it can
// launch the checkout flow.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentService owns the order-initiation and payment-verification flow.
//
// Subscription expiry is computed as now plus one calendar year via
// time.AddDate, so a Feb 29 verification lands on Mar 1 of the next year.
type PaymentService struct {
	store   PaymentStore
	gateway PaymentGateway
	secret  string
	locker  OrderLocker
	now     func() time.Time
}

// NewPaymentService creates a payment service. gateway may be nil and secret
// empty when the gateway credentials are absent; both endpoints then fail
// with ErrGatewayNotConfigured while the rest of the server stays up.
func NewPaymentService(store PaymentStore, gateway PaymentGateway, secret string, locker OrderLocker) *PaymentService {
	return &PaymentService{
		store:   store,
		gateway: gateway,
		secret:  secret,
		locker:  locker,
		now:     time.Now,
	}
}

// NewPaymentServiceFromConfig wires the real Razorpay client from env config.
func NewPaymentServiceFromConfig(store PaymentStore, cfg config.RazorpayConfig, locker OrderLocker) *PaymentService {
	if !cfg.IsConfigured() {
		return NewPaymentService(store, nil, "", locker)
	}
	return NewPaymentService(store, NewRazorpayGateway(cfg.KeyID, cfg.KeySecret), cfg.KeySecret, locker)
}

// CreateOrder creates a gateway order for amount (major units) and records a
// PENDING payment row keyed by the gateway order id.
//
// If the row insert fails after the gateway call succeeded, the gateway order
// exists with no local record and needs manual reconciliation; verification
// for it will report ErrPaymentNotFound.
func (s *PaymentService) CreateOrder(ctx context.Context, amount int64, userID string) (*Order, error) {
	if s.gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	receipt := fmt.Sprintf("receipt_order_%d", s.now().UnixMilli())
	amountMinor := amount * 100 // INR rupees -> paise

	orderID, err := s.gateway.CreateOrder(ctx, amountMinor, currencyINR, receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	payment := &model.Payment{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currencyINR,
		UserID:   userID,
		Status:   model.PaymentStatusPending,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("persist payment record for order %s: %w", orderID, err)
	}

	return &Order{
		ID:       orderID,
		Amount:   amountMinor,
		Currency: currencyINR,
		Receipt:  receipt,
	}, nil
}

// VerifyPayment validates a client-submitted payment confirmation and applies
// the resulting state transition.
//
// On a valid signature the PENDING payment becomes SUCCESS and the user's
// subscription is activated for one year, both in one transaction. On an
// invalid signature the payment becomes FAILED and the user is untouched.
// Retrying a successful verification is a no-op that still reports success;
// planExpiry is set only by the first transition and never re-extended.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature, userID string) error {
	if s.secret == "" {
		return ErrGatewayNotConfigured
	}

	if s.locker != nil {
		release, acquired := s.locker.Acquire(ctx, orderID)
		if !acquired {
			return ErrVerificationInProgress
		}
		defer release()
	}

	if !s.signatureValid(orderID, paymentID, signature) {
		if err := s.store.FailPayment(ctx, orderID); err != nil {
			return fmt.Errorf("mark payment failed for order %s: %w", orderID, err)
		}
		return ErrSignatureMismatch
	}

	expiry := s.now().AddDate(1, 0, 0)
	applied, err := s.store.CompletePayment(ctx, orderID, paymentID, signature, userID, expiry)
	if err != nil {
		return fmt.Errorf("complete payment for order %s: %w", orderID, err)
	}
	if applied {
		return nil
	}

	// The compare-and-swap matched no row: the record is either missing or
	// already terminal.
	payment, err := s.store.PaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("load payment for order %s: %w", orderID, err)
	}

	switch payment.Status {
	case model.PaymentStatusSuccess:
		return nil
	case model.PaymentStatusFailed:
		return ErrPaymentAlreadyFailed
	default:
		return ErrVerificationInProgress
	}
}

func (s *PaymentService) signatureValid(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// RazorpayGateway adapts the Razorpay SDK to the PaymentGateway interface.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway client from API credentials.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateOrder creates an order with Razorpay and returns its id.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", errors.New("gateway returned an order without an id")
	}
	return orderID, nil
}
