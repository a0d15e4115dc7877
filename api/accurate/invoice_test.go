package accurate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() SalesInvoice {
	return SalesInvoice{
		CustomerNo: "C-001",
		TransDate:  "2025-08-31",
		Number:     "INV-9",
		Items: []InvoiceItem{
			{
				ItemNo:    "BRG-1",
				Quantity:  decimal.NewFromInt(3),
				UnitPrice: decimal.NewFromInt(25000),
			},
		},
	}
}

func TestSalesInvoice_Validate(t *testing.T) {
	require.NoError(t, validInvoice().Validate())

	t.Run("missing customer", func(t *testing.T) {
		inv := validInvoice()
		inv.CustomerNo = "  "
		assert.Error(t, inv.Validate())
	})
	t.Run("missing trans date", func(t *testing.T) {
		inv := validInvoice()
		inv.TransDate = ""
		assert.Error(t, inv.Validate())
	})
	t.Run("no items", func(t *testing.T) {
		inv := validInvoice()
		inv.Items = nil
		assert.Error(t, inv.Validate())
	})
	t.Run("zero quantity", func(t *testing.T) {
		inv := validInvoice()
		inv.Items[0].Quantity = decimal.Zero
		assert.Error(t, inv.Validate())
	})
	t.Run("negative unit price", func(t *testing.T) {
		inv := validInvoice()
		inv.Items[0].UnitPrice = decimal.NewFromInt(-1)
		assert.Error(t, inv.Validate())
	})
	t.Run("percent out of range", func(t *testing.T) {
		inv := validInvoice()
		inv.Items[0].Discount = PercentDiscount(decimal.NewFromInt(101))
		assert.Error(t, inv.Validate())
	})
	t.Run("negative amount discount", func(t *testing.T) {
		inv := validInvoice()
		inv.Discount = AmountDiscount(decimal.NewFromInt(-5))
		assert.Error(t, inv.Validate())
	})
	t.Run("boundary percents pass", func(t *testing.T) {
		inv := validInvoice()
		inv.Items[0].Discount = PercentDiscount(decimal.Zero)
		inv.Discount = PercentDiscount(decimal.NewFromInt(100))
		assert.NoError(t, inv.Validate())
	})
}

func TestNormalizeTransDate(t *testing.T) {
	assert.Equal(t, "31/08/2025", normalizeTransDate("2025-08-31"))
	assert.Equal(t, "31/08/2025", normalizeTransDate("31/08/2025"))
	assert.Equal(t, "not-a-date", normalizeTransDate("not-a-date"))
}

func TestSalesInvoice_Form(t *testing.T) {
	inv := validInvoice()
	inv.Description = "monthly recap"
	inv.Items = append(inv.Items, InvoiceItem{
		ItemNo:    "BRG-2",
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(5000),
		Discount:  AmountDiscount(decimal.NewFromInt(500)),
	})
	inv.Items[0].Discount = PercentDiscount(decimal.NewFromInt(10))
	inv.Discount = AmountDiscount(decimal.NewFromInt(1000))

	form := inv.Form()

	assert.Equal(t, "C-001", form.Get("customerNo"))
	assert.Equal(t, "31/08/2025", form.Get("transDate"))
	assert.Equal(t, "INV-9", form.Get("number"))
	assert.Equal(t, "monthly recap", form.Get("description"))

	assert.Equal(t, "BRG-1", form.Get("detailItem[0].itemNo"))
	assert.Equal(t, "3", form.Get("detailItem[0].quantity"))
	assert.Equal(t, "25000", form.Get("detailItem[0].unitPrice"))
	// percent line discount zeroes the cash discount alongside
	assert.Equal(t, "10", form.Get("detailItem[0].itemDiscPercent"))
	assert.Equal(t, "0", form.Get("detailItem[0].itemCashDiscount"))

	// amount line discount is sent alone
	assert.Equal(t, "500", form.Get("detailItem[1].itemCashDiscount"))
	assert.Empty(t, form.Get("detailItem[1].itemDiscPercent"))

	assert.Equal(t, "1000", form.Get("cashDiscount"))
	assert.Empty(t, form.Get("cashDiscPercent"))
}

func TestSalesInvoice_FormOmitsEmptyHeaderFields(t *testing.T) {
	inv := validInvoice()
	inv.Number = ""
	form := inv.Form()
	_, hasNumber := form["number"]
	_, hasDescription := form["description"]
	assert.False(t, hasNumber)
	assert.False(t, hasDescription)
	_, hasCash := form["cashDiscount"]
	assert.False(t, hasCash)
}
