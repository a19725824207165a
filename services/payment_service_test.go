package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/hiringbull/server/model"
)

const testSecret = "s3cr3t"

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type gatewayCall struct {
	amountMinor int64
	currency    string
	receipt     string
}

type fakeGateway struct {
	orderID string
	err     error
	calls   []gatewayCall
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	g.calls = append(g.calls, gatewayCall{amountMinor, currency, receipt})
	if g.err != nil {
		return "", g.err
	}
	return g.orderID, nil
}

type fakeStore struct {
	payments map[string]*model.Payment
	users    map[string]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payments: make(map[string]*model.Payment),
		users:    make(map[string]*model.User),
	}
}

func (s *fakeStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	cp := *p
	s.payments[p.OrderID] = &cp
	return nil
}

func (s *fakeStore) PaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	p, ok := s.payments[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) CompletePayment(ctx context.Context, orderID, paymentID, signature, userID string, expiry time.Time) (bool, error) {
	p, ok := s.payments[orderID]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.PaymentID = paymentID
	p.Signature = signature
	p.Status = model.PaymentStatusSuccess

	u, ok := s.users[userID]
	if !ok {
		u = &model.User{ID: userID}
		s.users[userID] = u
	}
	u.IsPaid = true
	e := expiry
	u.PlanExpiry = &e
	return true, nil
}

func (s *fakeStore) FailPayment(ctx context.Context, orderID string) error {
	if p, ok := s.payments[orderID]; ok && p.Status == model.PaymentStatusPending {
		p.Status = model.PaymentStatusFailed
	}
	return nil
}

func (s *fakeStore) seedPending(orderID, userID string, amount int64) {
	s.payments[orderID] = &model.Payment{
		OrderID:  orderID,
		Amount:   amount,
		Currency: "INR",
		UserID:   userID,
		Status:   model.PaymentStatusPending,
	}
	s.users[userID] = &model.User{ID: userID}
}

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, orderID string) (func(), bool) {
	return nil, false
}

type countingLocker struct {
	acquired int
	released int
}

func (l *countingLocker) Acquire(ctx context.Context, orderID string) (func(), bool) {
	l.acquired++
	return func() { l.released++ }, true
}

func newTestService(store PaymentStore, gateway PaymentGateway, locker OrderLocker, now time.Time) *PaymentService {
	svc := NewPaymentService(store, gateway, testSecret, locker)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateOrderPersistsPendingPayment(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{orderID: "order_abc"}
	svc := newTestService(store, gateway, nil, time.Now())

	order, err := svc.CreateOrder(context.Background(), 500, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if order.ID != "order_abc" {
		t.Errorf("Expected order id order_abc, got %s", order.ID)
	}
	if order.Amount != 50000 {
		t.Errorf("Expected minor-unit amount 50000, got %d", order.Amount)
	}
	if order.Currency != "INR" {
		t.Errorf("Expected currency INR, got %s", order.Currency)
	}

	if len(gateway.calls) != 1 {
		t.Fatalf("Expected one gateway call, got %d", len(gateway.calls))
	}
	if gateway.calls[0].amountMinor != 50000 {
		t.Errorf("Gateway must receive minor units, got %d", gateway.calls[0].amountMinor)
	}

	p, ok := store.payments["order_abc"]
	if !ok {
		t.Fatal("Expected a payment row for order_abc")
	}
	if p.Status != model.PaymentStatusPending {
		t.Errorf("Expected status PENDING, got %s", p.Status)
	}
	if p.Amount != 500 {
		t.Errorf("Payment row must keep major units, got %d", p.Amount)
	}
	if p.UserID != "user-1" {
		t.Errorf("Expected userId user-1, got %s", p.UserID)
	}
}

func TestCreateOrderGatewayNotConfigured(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, nil, "", nil)

	_, err := svc.CreateOrder(context.Background(), 500, "user-1")
	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("Expected ErrGatewayNotConfigured, got: %v", err)
	}
	if len(store.payments) != 0 {
		t.Error("No payment row may be created when the gateway is unconfigured")
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{orderID: "order_abc"}
	svc := newTestService(store, gateway, nil, time.Now())

	for _, amount := range []int64{0, -10} {
		if _, err := svc.CreateOrder(context.Background(), amount, "user-1"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if len(gateway.calls) != 0 {
		t.Error("Gateway must not be called for invalid amounts")
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{err: errors.New("gateway down")}
	svc := newTestService(store, gateway, nil, time.Now())

	if _, err := svc.CreateOrder(context.Background(), 500, "user-1"); err == nil {
		t.Fatal("Expected an error when the gateway call fails")
	}
	if len(store.payments) != 0 {
		t.Error("No payment row may be created when the gateway call fails")
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, nil, nil, now)

	signature := sign(testSecret, "order_abc", "pay_123")
	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	p := store.payments["order_abc"]
	if p.Status != model.PaymentStatusSuccess {
		t.Errorf("Expected status SUCCESS, got %s", p.Status)
	}
	if p.PaymentID != "pay_123" {
		t.Errorf("Expected paymentId pay_123, got %s", p.PaymentID)
	}
	if p.Signature != signature {
		t.Error("Expected the verified signature to be stored")
	}

	u := store.users["user-1"]
	if !u.IsPaid {
		t.Error("Expected user to be marked paid")
	}
	wantExpiry := now.AddDate(1, 0, 0)
	if u.PlanExpiry == nil || !u.PlanExpiry.Equal(wantExpiry) {
		t.Errorf("Expected planExpiry %v, got %v", wantExpiry, u.PlanExpiry)
	}
}

func TestVerifyPaymentInvalidSignature(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	svc := newTestService(store, nil, nil, time.Now())

	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", "deadbeef", "user-1")
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Expected ErrSignatureMismatch, got: %v", err)
	}

	p := store.payments["order_abc"]
	if p.Status != model.PaymentStatusFailed {
		t.Errorf("Expected status FAILED, got %s", p.Status)
	}

	u := store.users["user-1"]
	if u.IsPaid || u.PlanExpiry != nil {
		t.Error("Invalid signature must leave the user's subscription untouched")
	}
}

func TestVerifyPaymentSingleCharacterMutationFails(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	svc := newTestService(store, nil, nil, time.Now())

	signature := []byte(sign(testSecret, "order_abc", "pay_123"))
	if signature[0] == '0' {
		signature[0] = '1'
	} else {
		signature[0] = '0'
	}

	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", string(signature), "user-1")
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Expected ErrSignatureMismatch for a mutated signature, got: %v", err)
	}
}

func TestVerifyPaymentIdempotentRetryDoesNotExtendExpiry(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	first := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, nil, nil, first)

	signature := sign(testSecret, "order_abc", "pay_123")
	if err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1"); err != nil {
		t.Fatalf("First verify failed: %v", err)
	}

	// Retry a month later; the call must succeed without moving the expiry.
	svc.now = func() time.Time { return first.AddDate(0, 1, 0) }
	if err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1"); err != nil {
		t.Fatalf("Retried verify failed: %v", err)
	}

	wantExpiry := first.AddDate(1, 0, 0)
	u := store.users["user-1"]
	if u.PlanExpiry == nil || !u.PlanExpiry.Equal(wantExpiry) {
		t.Errorf("Retry must not extend planExpiry: want %v, got %v", wantExpiry, u.PlanExpiry)
	}
}

func TestVerifyPaymentDoesNotRegressSuccess(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	svc := newTestService(store, nil, nil, time.Now())

	signature := sign(testSecret, "order_abc", "pay_123")
	if err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", "deadbeef", "user-1")
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Expected ErrSignatureMismatch, got: %v", err)
	}
	if store.payments["order_abc"].Status != model.PaymentStatusSuccess {
		t.Error("A SUCCESS payment must never regress to FAILED")
	}
}

func TestVerifyPaymentAlreadyFailed(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	store.payments["order_abc"].Status = model.PaymentStatusFailed
	svc := newTestService(store, nil, nil, time.Now())

	signature := sign(testSecret, "order_abc", "pay_123")
	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1")
	if !errors.Is(err, ErrPaymentAlreadyFailed) {
		t.Fatalf("Expected ErrPaymentAlreadyFailed, got: %v", err)
	}
	if store.users["user-1"].IsPaid {
		t.Error("A FAILED payment must never activate the subscription")
	}
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, time.Now())

	signature := sign(testSecret, "order_missing", "pay_123")
	err := svc.VerifyPayment(context.Background(), "order_missing", "pay_123", signature, "user-1")
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("Expected ErrPaymentNotFound, got: %v", err)
	}
}

func TestVerifyPaymentLockContention(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	svc := newTestService(store, nil, busyLocker{}, time.Now())

	signature := sign(testSecret, "order_abc", "pay_123")
	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1")
	if !errors.Is(err, ErrVerificationInProgress) {
		t.Fatalf("Expected ErrVerificationInProgress, got: %v", err)
	}
	if store.payments["order_abc"].Status != model.PaymentStatusPending {
		t.Error("A contended verify must not touch the payment row")
	}
}

func TestVerifyPaymentReleasesLock(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	locker := &countingLocker{}
	svc := newTestService(store, nil, locker, time.Now())

	signature := sign(testSecret, "order_abc", "pay_123")
	if err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("Expected one acquire and one release, got %d/%d", locker.acquired, locker.released)
	}
}

func TestVerifyPaymentLeapDayExpiryClampsToMarchFirst(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	leapDay := time.Date(2028, time.February, 29, 10, 0, 0, 0, time.UTC)
	svc := newTestService(store, nil, nil, leapDay)

	signature := sign(testSecret, "order_abc", "pay_123")
	if err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", signature, "user-1"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	want := time.Date(2029, time.March, 1, 10, 0, 0, 0, time.UTC)
	u := store.users["user-1"]
	if u.PlanExpiry == nil || !u.PlanExpiry.Equal(want) {
		t.Errorf("Feb 29 anniversary must land on Mar 1: want %v, got %v", want, u.PlanExpiry)
	}
}

func TestVerifyPaymentRequiresSecret(t *testing.T) {
	store := newFakeStore()
	store.seedPending("order_abc", "user-1", 500)
	svc := NewPaymentService(store, nil, "", nil)

	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_123", "anything", "user-1")
	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("Expected ErrGatewayNotConfigured, got: %v", err)
	}
	if store.payments["order_abc"].Status != model.PaymentStatusPending {
		t.Error("An unconfigured verify must not touch the payment row")
	}
}
