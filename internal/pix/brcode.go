// Package pix builds simulated PIX charges: a BR Code (EMV merchant-presented
// QR payload) for a given amount and the PNG QR image that carries it.
package pix

import (
	"errors"  // Key validation errors
	"fmt"     // Field and CRC formatting
	"strings" // Payload building
	"unicode" // Combining mark table

	"github.com/shopspring/decimal"  // Money arithmetic
	"golang.org/x/text/runes"        // Rune filters
	"golang.org/x/text/transform"    // Transformer chaining
	"golang.org/x/text/unicode/norm" // Unicode normalization
)

// EMV field identifiers used by the BR Code
const (
	idPayloadFormat       = "00"
	idMerchantAccount     = "26"
	idMerchantCategory    = "52"
	idTransactionCurrency = "53"
	idTransactionAmount   = "54"
	idCountryCode         = "58"
	idMerchantName        = "59"
	idMerchantCity        = "60"
	idAdditionalData      = "62"
	idCRC                 = "63"

	idGUI       = "00"
	idPixKey    = "01"
	idReference = "05"

	pixGUI       = "BR.GOV.BCB.PIX"
	maxFieldLen  = 99
	currencyBRL  = "986"
	maxNameLen   = 25
	maxCityLen   = 15
	maxTxIDLen   = 25
	crcFieldHead = idCRC + "04"
)

// MaxKeyLen is the longest PIX key that still fits the merchant account field
const MaxKeyLen = maxFieldLen - len(idGUI+"14"+pixGUI) - len(idPixKey+"00")

// Payee identifies who receives the PIX transfer
type Payee struct {
	Key  string // PIX key
	Name string // Merchant name, accents are folded to ASCII
	City string // Merchant city, accents are folded to ASCII
}

// CheckKey reports whether key can be embedded in a BR Code
func CheckKey(key string) error {
	if key == "" {
		return errors.New("pix key is empty")
	}
	if len(key) > MaxKeyLen {
		return fmt.Errorf("pix key is %d bytes long, at most %d fit in a BR Code", len(key), MaxKeyLen)
	}
	return nil
}

// BuildPayload renders the BR Code for amount. reference is reduced to the
// alphanumeric characters allowed in the txid field.
func BuildPayload(payee Payee, amount decimal.Decimal, reference string) string {
	var b strings.Builder
	b.WriteString(field(idPayloadFormat, "01"))
	b.WriteString(field(idMerchantAccount, field(idGUI, pixGUI)+field(idPixKey, payee.Key)))
	b.WriteString(field(idMerchantCategory, "0000"))
	b.WriteString(field(idTransactionCurrency, currencyBRL))
	b.WriteString(field(idTransactionAmount, amount.StringFixed(2)))
	b.WriteString(field(idCountryCode, "BR"))
	b.WriteString(field(idMerchantName, truncate(asciiText(payee.Name), maxNameLen)))
	b.WriteString(field(idMerchantCity, truncate(asciiText(payee.City), maxCityLen)))
	b.WriteString(field(idAdditionalData, field(idReference, txID(reference))))
	b.WriteString(crcFieldHead)
	body := b.String()
	return body + fmt.Sprintf("%04X", CRC16(body))
}

// VerifyPayload reports whether the trailing CRC of payload matches its content
func VerifyPayload(payload string) bool {
	if len(payload) < len(crcFieldHead)+4 {
		return false
	}
	body, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	if !strings.HasSuffix(body, crcFieldHead) {
		return false
	}
	return fmt.Sprintf("%04X", CRC16(body)) == sum
}

// CRC16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the BR Code checksum
func CRC16(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func field(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// truncate keeps the first n runes of s
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// asciiText folds accents ("SÃO PAULO" becomes "SAO PAULO") and drops
// anything left outside printable ASCII, so field lengths count characters
func asciiText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E {
			return -1
		}
		return r
	}, folded)
}

func txID(reference string) string {
	var b strings.Builder
	for _, r := range reference {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "***"
	}
	return truncate(b.String(), maxTxIDLen)
}
