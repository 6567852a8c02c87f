package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnap struct {
	req  *snap.Request
	resp *snap.Response
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.req = req
	return f.resp, f.err
}

func paidOrder() *models.Order {
	order := billing()
	order.ID = "order-1"
	order.ItemTotal = decimal.RequireFromString("25.50")
	order.ShippingType = "standard"
	order.ShippingTotal = price("10")
	order.DiscountCode = "TENOFF"
	order.DiscountTotal = price("2.55")
	order.Items = []models.OrderItem{
		{SelectedProduct: models.SelectedProduct{Sku: "A", Description: "Kettle", Quantity: 2, UnitPrice: decimal.RequireFromString("10.25"), TotalPrice: decimal.RequireFromString("20.5")}},
		{SelectedProduct: models.SelectedProduct{Sku: "B", Description: "Ebook", Quantity: 1, UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(5)}},
	}
	order.RecalculateTotal()
	return order
}

func signature(orderID, statusCode, gross, key string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + gross + key))
	return hex.EncodeToString(sum[:])
}

func TestCreateTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	client := &fakeSnap{resp: &snap.Response{Token: "tok", RedirectURL: "https://pay.example/tok"}}
	svc := NewPaymentService(client, repositories.NewPaymentRepository(db), "server-key", "https://shop.example")

	order := paidOrder()
	payment, err := svc.CreateTransaction(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, "https://pay.example/tok", payment.RedirectURL)
	assert.True(t, payment.Amount.Equal(order.Total))

	req := client.req
	require.NotNil(t, req)
	assert.Equal(t, "order-1", req.TransactionDetails.OrderID)
	assert.Equal(t, order.Total.Round(0).IntPart(), req.TransactionDetails.GrossAmt)
	assert.Equal(t, "https://shop.example/orders/order-1", req.Callbacks.Finish)

	var sum int64
	ids := map[string]bool{}
	for _, item := range *req.Items {
		sum += item.Price * int64(item.Qty)
		ids[item.ID] = true
	}
	assert.Equal(t, req.TransactionDetails.GrossAmt, sum, "item lines add up to the gross amount")
	assert.True(t, ids["SHIPPING_FEE"])
	assert.True(t, ids["DISCOUNT"])

	stored, err := repositories.NewPaymentRepository(db).FindByOrderID(ctx, "order-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok", stored.Token)
}

func TestCreateTransactionFails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	client := &fakeSnap{err: &midtrans.Error{Message: "unauthorized", StatusCode: 401}}
	svc := NewPaymentService(client, repositories.NewPaymentRepository(db), "k", "")
	_, err := svc.CreateTransaction(ctx, paidOrder())
	assert.Error(t, err)

	client = &fakeSnap{resp: &snap.Response{}}
	svc = NewPaymentService(client, repositories.NewPaymentRepository(db), "k", "")
	_, err = svc.CreateTransaction(ctx, paidOrder())
	assert.Error(t, err)
}

func TestHandleNotification(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewPaymentRepository(db)
	svc := NewPaymentService(&fakeSnap{}, repo, "server-key", "")
	require.NoError(t, repo.Create(ctx, &models.Payment{OrderID: "order-1", Amount: decimal.NewFromInt(33), Status: models.PaymentStatusPending}))

	payload := MidtransNotificationPayload{
		TransactionStatus: "settlement",
		OrderID:           "order-1",
		GrossAmount:       "33.00",
		StatusCode:        "200",
	}
	payload.SignatureKey = signature(payload.OrderID, payload.StatusCode, payload.GrossAmount, "server-key")

	status, err := svc.HandleNotification(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, status)

	stored, err := repo.FindByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.Status)

	forged := payload
	forged.SignatureKey = signature(payload.OrderID, payload.StatusCode, payload.GrossAmount, "guess")
	_, err = svc.HandleNotification(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	for _, bad := range []string{"", payload.SignatureKey[:64], payload.SignatureKey + "00"} {
		truncated := payload
		truncated.SignatureKey = bad
		_, err = svc.HandleNotification(ctx, truncated)
		assert.ErrorIs(t, err, ErrInvalidSignature, "signature of length %d", len(bad))
	}

	unknown := payload
	unknown.OrderID = "order-2"
	unknown.SignatureKey = signature(unknown.OrderID, unknown.StatusCode, unknown.GrossAmount, "server-key")
	_, err = svc.HandleNotification(ctx, unknown)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPaymentStatusFromMidtrans(t *testing.T) {
	cases := []struct {
		transaction, fraud, want string
	}{
		{"capture", "accept", models.PaymentStatusPaid},
		{"capture", "challenge", models.PaymentStatusPending},
		{"settlement", "", models.PaymentStatusPaid},
		{"pending", "", models.PaymentStatusPending},
		{"deny", "", models.PaymentStatusFailed},
		{"expire", "", models.PaymentStatusFailed},
		{"cancel", "", models.PaymentStatusFailed},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PaymentStatusFromMidtrans(c.transaction, c.fraud), c.transaction+"/"+c.fraud)
	}
}
