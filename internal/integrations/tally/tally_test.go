package tally

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptVoucher(t *testing.T) {
	exporter := NewExporter("Prime Tutorials", logrus.New())

	receipt := &models.FeeReceipt{
		ReceiptNumber:  "RCP-20240301-0007",
		StudentName:    "Asha Verma",
		FeeDescription: "Tuition Fee (Tuition)",
		FeePeriod:      "March 2024",
		PaidAmount:     decimal.RequireFromString("600.00"),
		IssuedAt:       time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC),
	}
	items := []*models.FeeReceiptItem{
		{Description: "Tuition Fee (Tuition)", Amount: decimal.RequireFromString("600.00")},
	}

	out, err := exporter.ReceiptVoucher(receipt, items)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))

	voucher := doc.FindElement("//ENVELOPE/BODY/IMPORTDATA/REQUESTDATA/TALLYMESSAGE/VOUCHER")
	require.NotNil(t, voucher)
	assert.Equal(t, "Receipt", voucher.SelectAttrValue("VCHTYPE", ""))
	assert.Equal(t, "RCP-20240301-0007", voucher.FindElement("./VOUCHERNUMBER").Text())
	assert.Equal(t, "20240301", voucher.FindElement("./DATE").Text())

	company := doc.FindElement("//STATICVARIABLES/SVCURRENTCOMPANY")
	require.NotNil(t, company)
	assert.Equal(t, "Prime Tutorials", company.Text())

	entries := voucher.FindElements("./ALLLEDGERENTRIES.LIST")
	require.Len(t, entries, 2)
	assert.Equal(t, "-600.00", entries[0].FindElement("./AMOUNT").Text())
	assert.Equal(t, "600.00", entries[1].FindElement("./AMOUNT").Text())
	assert.Equal(t, "Fee Collections", entries[1].FindElement("./LEDGERNAME").Text())
}

func TestReceiptVoucherBalancesForPartialPayment(t *testing.T) {
	exporter := NewExporter("Prime Tutorials", logrus.New())

	// Second partial payment: the receipt snapshot carries the cumulative
	// paid total, but the voucher must only move this payment's money.
	receipt := &models.FeeReceipt{
		ReceiptNumber:  "RCP-20240315-0002",
		StudentName:    "Asha Verma",
		FeeDescription: "Tuition Fee (Tuition)",
		FeePeriod:      "March 2024",
		PaidAmount:     decimal.RequireFromString("1000.00"),
		IssuedAt:       time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
	}
	items := []*models.FeeReceiptItem{
		{Description: "Tuition Fee (Tuition)", Amount: decimal.RequireFromString("600.00")},
	}

	out, err := exporter.ReceiptVoucher(receipt, items)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))

	entries := doc.FindElements("//VOUCHER/ALLLEDGERENTRIES.LIST")
	require.Len(t, entries, 2)
	assert.Equal(t, "-600.00", entries[0].FindElement("./AMOUNT").Text())

	net := decimal.Zero
	for _, entry := range entries {
		amount := decimal.RequireFromString(entry.FindElement("./AMOUNT").Text())
		net = net.Add(amount)
	}
	assert.True(t, net.IsZero(), "ledger entries must net to zero, got %s", net)
}

func TestReceiptVoucherNilReceipt(t *testing.T) {
	exporter := NewExporter("", logrus.New())
	_, err := exporter.ReceiptVoucher(nil, nil)
	assert.Error(t, err)
}
