package tally

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Exporter renders fee receipts as Tally import envelopes so the accounts
// team can pull collections into their books without retyping
type Exporter struct {
	company string
	ledger  string
	log     *logrus.Logger
}

// NewExporter initializes a Tally exporter for the given company name
func NewExporter(company string, log *logrus.Logger) *Exporter {
	if company == "" {
		company = "Coaching Institute"
	}
	return &Exporter{
		company: company,
		ledger:  "Fee Collections",
		log:     log,
	}
}

// ReceiptVoucher builds a Tally XML receipt voucher for one fee receipt
// with one ledger line per receipt item
func (e *Exporter) ReceiptVoucher(receipt *models.FeeReceipt, items []*models.FeeReceiptItem) (string, error) {
	if receipt == nil {
		return "", fmt.Errorf("receipt is required")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	envelope := doc.CreateElement("ENVELOPE")
	header := envelope.CreateElement("HEADER")
	header.CreateElement("TALLYREQUEST").SetText("Import Data")

	body := envelope.CreateElement("BODY")
	data := body.CreateElement("IMPORTDATA")

	reqDesc := data.CreateElement("REQUESTDESC")
	reqDesc.CreateElement("REPORTNAME").SetText("Vouchers")
	staticVars := reqDesc.CreateElement("STATICVARIABLES")
	staticVars.CreateElement("SVCURRENTCOMPANY").SetText(e.company)

	reqData := data.CreateElement("REQUESTDATA")
	message := reqData.CreateElement("TALLYMESSAGE")

	voucher := message.CreateElement("VOUCHER")
	voucher.CreateAttr("VCHTYPE", "Receipt")
	voucher.CreateAttr("ACTION", "Create")
	voucher.CreateElement("DATE").SetText(receipt.IssuedAt.Format("20060102"))
	voucher.CreateElement("VOUCHERTYPENAME").SetText("Receipt")
	voucher.CreateElement("VOUCHERNUMBER").SetText(receipt.ReceiptNumber)
	voucher.CreateElement("PARTYLEDGERNAME").SetText(receipt.StudentName)
	voucher.CreateElement("NARRATION").SetText(
		fmt.Sprintf("%s, %s (%s)", receipt.FeeDescription, receipt.FeePeriod, receipt.StudentName))

	// Debit the party, credit the fee ledger. Tally's convention: debit
	// amounts are negative in receipt vouchers. The voucher covers this
	// payment only, so the party line must equal the sum of the items, not
	// the receipt's cumulative paid total.
	received := decimal.Zero
	for _, item := range items {
		received = received.Add(item.Amount)
	}

	party := voucher.CreateElement("ALLLEDGERENTRIES.LIST")
	party.CreateElement("LEDGERNAME").SetText(receipt.StudentName)
	party.CreateElement("ISDEEMEDPOSITIVE").SetText("Yes")
	party.CreateElement("AMOUNT").SetText("-" + received.StringFixed(2))

	for _, item := range items {
		entry := voucher.CreateElement("ALLLEDGERENTRIES.LIST")
		entry.CreateElement("LEDGERNAME").SetText(e.ledger)
		entry.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
		entry.CreateElement("AMOUNT").SetText(item.Amount.StringFixed(2))
		entry.CreateElement("NARRATION").SetText(item.Description)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize voucher: %w", err)
	}

	e.log.Debugf("Tally voucher built for receipt %s", receipt.ReceiptNumber)
	return out, nil
}
