package service

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

var ErrInvalidOrderID = errors.New("invalid order id")

type ReceiptGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// ReceiptQR renders a PNG QR code that links to an order's detail page.
type ReceiptQR struct {
	BaseURL string
}

func (g ReceiptQR) Link(orderID int) string {
	return fmt.Sprintf("%s/orders/%d", g.BaseURL, orderID)
}

func (g ReceiptQR) Generate(orderID int) ([]byte, error) {
	if orderID <= 0 {
		return nil, ErrInvalidOrderID
	}
	return qrcode.Encode(g.Link(orderID), qrcode.Medium, 256)
}
