package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/coachms/coaching-service/internal/config"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendFeeReminder sends an upcoming-due or overdue fee reminder to a parent
func (s *Sender) SendFeeReminder(to, parentName, studentName string, dueDate time.Time, balance, lateFee decimal.Decimal, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = "Overdue Fee Payment Notification"
	} else {
		e.Subject = "Upcoming Fee Payment Reminder"
	}

	body := fmt.Sprintf(
		"Dear %s,\n\n", parentName,
	)
	if isOverdue {
		body += fmt.Sprintf(
			"The fee of %s INR for %s was due on %s and is now overdue.\n",
			balance.StringFixed(2), studentName, dueDate.Format("2006-01-02"),
		)
		if lateFee.IsPositive() {
			body += fmt.Sprintf("A late fee of %s INR has accrued so far.\n", lateFee.StringFixed(2))
		}
		body += "Please clear the dues at the earliest to avoid further late fees.\n"
	} else {
		body += fmt.Sprintf(
			"This is a reminder that a fee of %s INR for %s is due on %s.\n"+
				"Please make the payment at the front desk or through your usual mode.\n",
			balance.StringFixed(2), studentName, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nAccounts Desk"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// receiptBody renders the receipt email text. received is this payment's
// amount, distinct from the receipt's cumulative paid total.
func receiptBody(receipt *models.FeeReceipt, received decimal.Decimal) string {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We have received a payment of %s INR towards %s for %s.\n\n"+
			"Receipt number: %s\n"+
			"Fee period: %s\n"+
			"Total fee: %s INR\n"+
			"Paid so far: %s INR\n"+
			"Balance: %s INR\n",
		receipt.ParentName,
		received.StringFixed(2), receipt.FeeDescription, receipt.StudentName,
		receipt.ReceiptNumber,
		receipt.FeePeriod,
		receipt.TotalAmount.StringFixed(2),
		receipt.PaidAmount.StringFixed(2),
		receipt.BalanceAmount.StringFixed(2),
	)
	body += "\nBest regards,\nAccounts Desk"
	return body
}

// SendReceipt sends a fee receipt to a parent after a completed payment.
// received is this payment's amount; the receipt itself carries the
// cumulative paid total.
func (s *Sender) SendReceipt(to string, receipt *models.FeeReceipt, received decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Fee Receipt %s", receipt.ReceiptNumber)
	e.Text = []byte(receiptBody(receipt, received))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send receipt to %s: %v", to, err)
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
