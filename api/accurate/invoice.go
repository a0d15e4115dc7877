package accurate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountKind tags the one discount interpretation a line or invoice uses.
type DiscountKind int

const (
	DiscountNone DiscountKind = iota
	DiscountPercent
	DiscountAmount
)

// DiscountSpec is a tagged discount value. A percent must be 0..100, an
// amount must be non-negative, and DiscountNone ignores Value entirely.
type DiscountSpec struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

func PercentDiscount(v decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountPercent, Value: v}
}

func AmountDiscount(v decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountAmount, Value: v}
}

func (d DiscountSpec) validate(what string) error {
	switch d.Kind {
	case DiscountNone:
		return nil
	case DiscountPercent:
		if d.Value.IsNegative() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%s discount percent must be 0..100", what)
		}
		return nil
	case DiscountAmount:
		if d.Value.IsNegative() {
			return fmt.Errorf("%s discount amount must be >= 0", what)
		}
		return nil
	default:
		return fmt.Errorf("%s has unknown discount kind", what)
	}
}

// InvoiceItem is one detail line of a sales invoice.
type InvoiceItem struct {
	ItemNo    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  DiscountSpec
}

// SalesInvoice is the header plus detail lines posted to save.do.
type SalesInvoice struct {
	CustomerNo  string
	TransDate   string
	Number      string
	Description string
	Items       []InvoiceItem
	Discount    DiscountSpec
}

// Validate enforces the save.do preconditions before anything leaves the
// process: required header fields, positive quantities, sane discounts.
func (inv SalesInvoice) Validate() error {
	if strings.TrimSpace(inv.CustomerNo) == "" {
		return fmt.Errorf("customerNo is required")
	}
	if strings.TrimSpace(inv.TransDate) == "" {
		return fmt.Errorf("transDate is required")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("items is required")
	}
	for i, it := range inv.Items {
		if strings.TrimSpace(it.ItemNo) == "" {
			return fmt.Errorf("items[%d].itemNo is required", i)
		}
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("items[%d].qty must be > 0", i)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("items[%d].unitPrice must be >= 0", i)
		}
		if err := it.Discount.validate(fmt.Sprintf("items[%d]", i)); err != nil {
			return err
		}
	}
	return inv.Discount.validate("invoice")
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeTransDate converts YYYY-MM-DD to the DD/MM/YYYY form save.do
// expects; anything else passes through unchanged.
func normalizeTransDate(s string) string {
	if isoDate.MatchString(s) {
		return s[8:10] + "/" + s[5:7] + "/" + s[0:4]
	}
	return s
}

// Form renders the invoice as the urlencoded body of save.do. A percent line
// discount also zeroes itemCashDiscount so the endpoint does not combine the
// two; an amount discount is sent alone.
func (inv SalesInvoice) Form() url.Values {
	form := url.Values{}
	form.Set("customerNo", inv.CustomerNo)
	form.Set("transDate", normalizeTransDate(inv.TransDate))
	if inv.Number != "" {
		form.Set("number", inv.Number)
	}
	if inv.Description != "" {
		form.Set("description", inv.Description)
	}

	for i, it := range inv.Items {
		prefix := fmt.Sprintf("detailItem[%d].", i)
		form.Set(prefix+"itemNo", it.ItemNo)
		form.Set(prefix+"quantity", it.Quantity.String())
		form.Set(prefix+"unitPrice", it.UnitPrice.String())
		switch it.Discount.Kind {
		case DiscountPercent:
			form.Set(prefix+"itemDiscPercent", it.Discount.Value.String())
			form.Set(prefix+"itemCashDiscount", "0")
		case DiscountAmount:
			form.Set(prefix+"itemCashDiscount", it.Discount.Value.String())
		}
	}

	switch inv.Discount.Kind {
	case DiscountPercent:
		form.Set("cashDiscPercent", inv.Discount.Value.String())
		form.Set("cashDiscount", "0")
	case DiscountAmount:
		form.Set("cashDiscount", inv.Discount.Value.String())
	}
	return form
}
