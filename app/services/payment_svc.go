package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

var ErrInvalidSignature = errors.New("invalid payment notification signature")

// SnapClient is the part of the Midtrans Snap client used to start a payment.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransNotificationPayload struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
}

type PaymentService struct {
	snap        SnapClient
	paymentRepo repositories.PaymentRepository
	serverKey   string
	appURL      string
}

func NewPaymentService(snapClient SnapClient, paymentRepo repositories.PaymentRepository, serverKey, appURL string) *PaymentService {
	return &PaymentService{
		snap:        snapClient,
		paymentRepo: paymentRepo,
		serverKey:   serverKey,
		appURL:      appURL,
	}
}

// CreateTransaction starts a Snap payment for the order and records it.
func (s *PaymentService) CreateTransaction(ctx context.Context, order *models.Order) (*models.Payment, error) {
	req := s.buildRequest(order)

	resp, midtransErr := s.snap.CreateTransaction(req)
	if midtransErr != nil {
		log.Printf("PaymentService.CreateTransaction: midtrans error for order %s: %v", order.ID, midtransErr.Message)
		return nil, fmt.Errorf("failed to initiate Midtrans transaction: %w", midtransErr)
	}
	if resp == nil || resp.Token == "" || resp.RedirectURL == "" {
		log.Printf("PaymentService.CreateTransaction: empty response for order %s: %+v", order.ID, resp)
		return nil, errors.New("midtrans returned no token or redirect URL")
	}

	payment := &models.Payment{
		OrderID:     order.ID,
		Amount:      order.Total,
		Method:      "Midtrans Snap",
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Status:      models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		log.Printf("PaymentService.CreateTransaction: failed to save payment for order %s: %v", order.ID, err)
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}
	return payment, nil
}

func (s *PaymentService) buildRequest(order *models.Order) *snap.Request {
	var items []midtrans.ItemDetails
	for _, item := range order.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    truncate(item.Sku, 50),
			Name:  truncate(item.Description, 50),
			Price: item.UnitPrice.Round(0).IntPart(),
			Qty:   int32(item.Quantity),
		})
	}
	if order.ShippingTotal.Valid && order.ShippingTotal.Decimal.IsPositive() {
		items = append(items, midtrans.ItemDetails{
			ID:    "SHIPPING_FEE",
			Name:  truncate("Shipping ("+order.ShippingType+")", 50),
			Price: order.ShippingTotal.Decimal.Round(0).IntPart(),
			Qty:   1,
		})
	}
	if order.DiscountTotal.Valid && order.DiscountTotal.Decimal.IsPositive() {
		items = append(items, midtrans.ItemDetails{
			ID:    "DISCOUNT",
			Name:  truncate("Discount "+order.DiscountCode, 50),
			Price: order.DiscountTotal.Decimal.Round(0).Neg().IntPart(),
			Qty:   1,
		})
	}

	gross := order.Total.Round(0)
	itemsTotal := decimal.Zero
	for _, item := range items {
		itemsTotal = itemsTotal.Add(decimal.NewFromInt(item.Price).Mul(decimal.NewFromInt32(item.Qty)))
	}
	if diff := gross.Sub(itemsTotal); !diff.IsZero() {
		items = append(items, midtrans.ItemDetails{
			ID:    "ADJUSTMENT",
			Name:  "Rounding adjustment",
			Price: diff.IntPart(),
			Qty:   1,
		})
	}

	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.ID,
			GrossAmt: gross.IntPart(),
		},
		Items: &items,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.BillingDetailFirstName,
			LName: order.BillingDetailLastName,
			Email: order.BillingDetailEmail,
			Phone: order.BillingDetailPhone,
			BillAddr: &midtrans.CustomerAddress{
				FName:    order.BillingDetailFirstName,
				LName:    order.BillingDetailLastName,
				Phone:    order.BillingDetailPhone,
				Address:  order.BillingDetailStreet,
				City:     order.BillingDetailCity,
				Postcode: order.BillingDetailPostcode,
			},
			ShipAddr: &midtrans.CustomerAddress{
				FName:    order.ShippingDetailFirstName,
				LName:    order.ShippingDetailLastName,
				Phone:    order.ShippingDetailPhone,
				Address:  order.ShippingDetailStreet,
				City:     order.ShippingDetailCity,
				Postcode: order.ShippingDetailPostcode,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
		Callbacks: &snap.Callbacks{
			Finish: s.appURL + "/orders/" + order.ID,
		},
	}
}

// HandleNotification verifies a Midtrans notification and updates the
// payment of the order it refers to.
func (s *PaymentService) HandleNotification(ctx context.Context, payload MidtransNotificationPayload) (string, error) {
	if !s.validSignature(payload) {
		log.Printf("PaymentService.HandleNotification: bad signature for order %s", payload.OrderID)
		return "", ErrInvalidSignature
	}

	payment, err := s.paymentRepo.FindByOrderID(ctx, payload.OrderID)
	if err != nil {
		return "", fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return "", ErrOrderNotFound
	}

	status := PaymentStatusFromMidtrans(payload.TransactionStatus, payload.FraudStatus)
	if err := s.paymentRepo.UpdateStatus(ctx, payload.OrderID, status); err != nil {
		return "", fmt.Errorf("failed to update payment status: %w", err)
	}
	log.Printf("PaymentService.HandleNotification: order %s payment %s", payload.OrderID, status)
	return status, nil
}

// validSignature checks sha512(order_id + status_code + gross_amount + server key).
func (s *PaymentService) validSignature(payload MidtransNotificationPayload) bool {
	sum := sha512.Sum512([]byte(payload.OrderID + payload.StatusCode + payload.GrossAmount + s.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(payload.SignatureKey)) == 1
}

func PaymentStatusFromMidtrans(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" || fraudStatus == "" {
			return models.PaymentStatusPaid
		}
		return models.PaymentStatusPending
	case "settlement":
		return models.PaymentStatusPaid
	case "deny", "cancel", "expire", "failure":
		return models.PaymentStatusFailed
	}
	return models.PaymentStatusPending
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
