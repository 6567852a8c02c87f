package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/utils/format"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	config   Config
	sendMail sendMailFunc
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config:   cfg,
		sendMail: smtp.SendMail,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := []string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}

	var msg bytes.Buffer
	for _, h := range headers {
		msg.WriteString(h + "\r\n")
	}
	msg.WriteString("\r\n" + htmlBody)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := m.sendMail(addr, auth, m.config.From, []string{to}, msg.Bytes()); err != nil {
		log.Printf("Mailer.SendHTMLEmail: failed to send to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendReceipt mails the order receipt to the billing email address.
func (m *Mailer) SendReceipt(order *models.Order, symbol string) error {
	if !m.config.Enabled() || order.BillingDetailEmail == "" {
		return nil
	}
	body, err := BuildReceiptEmailBody(order, symbol)
	if err != nil {
		return err
	}
	return m.SendHTMLEmail(order.BillingDetailEmail, "Order Receipt #"+order.ID, body)
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order Receipt</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>Thank you for your order, {{.Order.BillingDetailFirstName}}</h2>
<p>Order <strong>{{.Order.ID}}</strong> ({{.Order.StatusName}})</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
{{range .Lines}}<tr><td>{{.Description}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.UnitPrice}}</td><td align="right">{{.TotalPrice}}</td></tr>
{{end}}</table>
<p>Items: {{.ItemTotal}}</p>
{{if .Shipping}}<p>Shipping ({{.Order.ShippingType}}): {{.Shipping}}</p>{{end}}
{{if .Discount}}<p>Discount ({{.Order.DiscountCode}}): -{{.Discount}}</p>{{end}}
<p><strong>Total: {{.Total}}</strong></p>
<p>Shipping to {{.Order.ShippingDetailFirstName}} {{.Order.ShippingDetailLastName}}, {{.Order.ShippingDetailStreet}}, {{.Order.ShippingDetailCity}} {{.Order.ShippingDetailPostcode}}, {{.Order.ShippingDetailCountry}}</p>
</body>
</html>`))

type receiptLine struct {
	Description string
	Quantity    int
	UnitPrice   string
	TotalPrice  string
}

func BuildReceiptEmailBody(order *models.Order, symbol string) (string, error) {
	data := struct {
		Order     *models.Order
		Lines     []receiptLine
		ItemTotal string
		Shipping  string
		Discount  string
		Total     string
	}{
		Order:     order,
		ItemTotal: format.Money(order.ItemTotal, symbol),
		Total:     format.Money(order.Total, symbol),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, receiptLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   format.Money(item.UnitPrice, symbol),
			TotalPrice:  format.Money(item.TotalPrice, symbol),
		})
	}
	if order.ShippingTotal.Valid {
		data.Shipping = format.Money(order.ShippingTotal.Decimal, symbol)
	}
	if order.DiscountTotal.Valid && !order.DiscountTotal.Decimal.IsZero() {
		data.Discount = format.Money(order.DiscountTotal.Decimal, symbol)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}
