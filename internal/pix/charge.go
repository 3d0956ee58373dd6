package pix

import (
	"encoding/base64" // PNG transport encoding

	"github.com/google/uuid"        // Charge references
	"github.com/shopspring/decimal" // Money arithmetic
	"github.com/skip2/go-qrcode"    // QR image rendering
)

// qrSize is the side of the rendered QR image in pixels
const qrSize = 290

// Charge is a rendered PIX deposit request
type Charge struct {
	Reference string          // Unique reference id of the charge
	Amount    decimal.Decimal // Amount to be paid
	Payload   string          // BR Code "copia e cola" payload
	QRCodePNG string          // Base64 PNG of the payload
}

// Generator issues charges for a fixed payee
type Generator struct {
	payee Payee
}

// NewGenerator returns a Generator for payee
func NewGenerator(payee Payee) *Generator {
	return &Generator{payee: payee}
}

// NewCharge creates a charge with a fresh reference id
func (g *Generator) NewCharge(amount decimal.Decimal) (*Charge, error) {
	if err := CheckKey(g.payee.Key); err != nil {
		return nil, err
	}
	reference := uuid.NewString()
	payload := BuildPayload(g.payee, amount, reference)
	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return nil, err
	}
	return &Charge{
		Reference: reference,
		Amount:    amount,
		Payload:   payload,
		QRCodePNG: base64.StdEncoding.EncodeToString(png),
	}, nil
}
