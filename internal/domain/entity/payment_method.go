package entity

import (
	"fmt"
	"strings"
)

// PaymentMethodType discriminante de PaymentMethod.Details.
type PaymentMethodType string

const (
	PaymentBank   PaymentMethodType = "bank"
	PaymentPayPal PaymentMethodType = "paypal"
	PaymentCrypto PaymentMethodType = "crypto"
	PaymentOther  PaymentMethodType = "other"
)

// requiredDetails claves obligatorias de Details por tipo.
var requiredDetails = map[PaymentMethodType][]string{
	PaymentBank:   {"account_name", "account_number"},
	PaymentPayPal: {"email"},
	PaymentCrypto: {"network", "wallet_address"},
	PaymentOther:  {"instructions"},
}

// PaymentMethod método de cobro reutilizable del usuario; las facturas referencian un subconjunto por ID.
type PaymentMethod struct {
	ID      string            `json:"id"`
	Type    PaymentMethodType `json:"type"`
	Label   string            `json:"label"`
	Details map[string]string `json:"details"`
}

// Validate comprueba el tipo y las claves obligatorias de Details.
func (p PaymentMethod) Validate() error {
	required, ok := requiredDetails[p.Type]
	if !ok {
		return fmt.Errorf("tipo de método de pago desconocido %q", p.Type)
	}
	var missing []string
	for _, k := range required {
		if strings.TrimSpace(p.Details[k]) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("método de pago %s: faltan %s", p.Type, strings.Join(missing, ", "))
	}
	return nil
}

// Summary línea corta para mostrar en la factura.
func (p PaymentMethod) Summary() string {
	d := p.Details
	switch p.Type {
	case PaymentBank:
		s := d["account_name"] + " · " + d["account_number"]
		if d["bank_name"] != "" {
			s = d["bank_name"] + " · " + s
		}
		if d["routing_number"] != "" {
			s += " · Routing " + d["routing_number"]
		}
		return s
	case PaymentPayPal:
		return "PayPal · " + d["email"]
	case PaymentCrypto:
		return d["network"] + " · " + d["wallet_address"]
	default:
		return d["instructions"]
	}
}
