package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/coachms/coaching-service/internal/service"
	"github.com/shopspring/decimal"
)

type createFeeStructureRequest struct {
	Name                  string  `json:"name" validate:"required"`
	Type                  string  `json:"type" validate:"required"`
	Category              string  `json:"category" validate:"required,oneof=Monthly FullCourse Additional"`
	Amount                string  `json:"amount" validate:"required"`
	Frequency             string  `json:"frequency"`
	ClassID               *int64  `json:"class_id"`
	AcademicYear          string  `json:"academic_year"`
	DurationMonths        int     `json:"duration_months" validate:"gte=0"`
	LateFeePerDay         *string `json:"late_fee_per_day"`
	DiscountAmount        *string `json:"discount_amount"`
	DiscountDaysBeforeDue int     `json:"discount_days_before_due" validate:"gte=0"`
	IsRefundable          bool    `json:"is_refundable"`
	RefundPercentage      *string `json:"refund_percentage"`
}

// CreateFeeStructure adds a chargeable item to the catalog
func (h *Handler) CreateFeeStructure(w http.ResponseWriter, r *http.Request) {
	var req createFeeStructureRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	structure := &models.FeeStructure{
		Name:                  req.Name,
		Type:                  req.Type,
		Category:              models.FeeCategory(req.Category),
		Amount:                amount,
		Frequency:             req.Frequency,
		ClassID:               req.ClassID,
		AcademicYear:          req.AcademicYear,
		DurationMonths:        req.DurationMonths,
		DiscountDaysBeforeDue: req.DiscountDaysBeforeDue,
		IsRefundable:          req.IsRefundable,
	}
	if structure.LateFeePerDay, err = parseOptionalAmount(req.LateFeePerDay); err != nil {
		respondError(w, err)
		return
	}
	if structure.DiscountAmount, err = parseOptionalAmount(req.DiscountAmount); err != nil {
		respondError(w, err)
		return
	}
	if structure.RefundPercentage, err = parseOptionalAmount(req.RefundPercentage); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.svc.CreateFeeStructure(structure)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListFeeStructures returns the fee catalog
func (h *Handler) ListFeeStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.svc.ListFeeStructures()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, structures)
}

// DeleteFeeStructure soft-deletes a catalog entry
func (h *Handler) DeleteFeeStructure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.DeleteFeeStructure(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type assignFeeRequest struct {
	FeeStructureID int64   `json:"fee_structure_id" validate:"required"`
	DueDate        string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Discount       *string `json:"discount"`
	DiscountReason string  `json:"discount_reason"`
	IsRecurring    bool    `json:"is_recurring"`
	RecurringDay   int     `json:"recurring_day" validate:"gte=0,lte=31"`
	GracePeriod    int     `json:"grace_period_days" validate:"gte=0"`
}

// AssignFee creates a ledger entry for the student in the path
func (h *Handler) AssignFee(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req assignFeeRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, err)
		return
	}
	discount, err := parseOptionalAmount(req.Discount)
	if err != nil {
		respondError(w, err)
		return
	}

	fee, err := h.svc.AssignFee(service.AssignFeeInput{
		StudentID:      studentID,
		FeeStructureID: req.FeeStructureID,
		DueDate:        dueDate,
		Discount:       discount,
		DiscountReason: req.DiscountReason,
		IsRecurring:    req.IsRecurring,
		RecurringDay:   req.RecurringDay,
		GracePeriod:    req.GracePeriod,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fee)
}

// ListStudentFees returns the ledger of the student in the path
func (h *Handler) ListStudentFees(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	list, err := h.svc.ListStudentFees(studentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// FeeOverdueState reports the current lateness of one fee
func (h *Handler) FeeOverdueState(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	info, err := h.svc.FeeOverdueState(feeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

type generateScheduleRequest struct {
	FeeStructureID int64  `json:"fee_structure_id" validate:"required"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	ScheduleType   string `json:"schedule_type" validate:"required,oneof=Monthly FullCourse"`
	Installments   int    `json:"installments" validate:"gte=0"`
	RecurringDay   int    `json:"recurring_day" validate:"gte=0,lte=31"`
}

// GenerateSchedule expands a structure into installments for the student in
// the path
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req generateScheduleRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}

	schedule, installments, err := h.svc.GenerateSchedule(service.GenerateScheduleInput{
		StudentID:      studentID,
		FeeStructureID: req.FeeStructureID,
		StartDate:      start,
		ScheduleType:   models.ScheduleType(req.ScheduleType),
		Installments:   req.Installments,
		RecurringDay:   req.RecurringDay,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"schedule":     schedule,
		"installments": installments,
	})
}

// GetSchedule returns a schedule with its installments
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	schedule, installments, err := h.svc.GetSchedule(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"schedule":     schedule,
		"installments": installments,
	})
}

type collectPaymentRequest struct {
	Amount  string `json:"amount" validate:"required"`
	Method  string `json:"method" validate:"required,oneof=Cash UPI Card BankTransfer Cheque"`
	Remarks string `json:"remarks"`
}

// CollectPayment records money received against the fee in the path and
// returns the payment with its receipt
func (h *Handler) CollectPayment(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req collectPaymentRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	payment, receipt, err := h.svc.CollectPayment(service.CollectPaymentInput{
		StudentFeeID: feeID,
		Amount:       amount,
		Method:       models.PaymentMethod(req.Method),
		ReceivedBy:   callerID(r),
		Remarks:      req.Remarks,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"payment": payment,
		"receipt": receipt,
	})
}

// ListFeePayments returns the payment history of the fee in the path
func (h *Handler) ListFeePayments(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	payments, err := h.svc.ListFeePayments(feeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

type waiveFeeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// WaiveFee administratively waives the fee in the path
func (h *Handler) WaiveFee(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req waiveFeeRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	fee, err := h.svc.WaiveFee(feeID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fee)
}

// GetReceipt returns a receipt with its line items
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	receipt, items, err := h.svc.GetReceipt(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"receipt": receipt,
		"items":   items,
	})
}

// ExportReceiptTally renders a receipt as a Tally import voucher
func (h *Handler) ExportReceiptTally(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	receipt, items, err := h.svc.GetReceipt(id)
	if err != nil {
		respondError(w, err)
		return
	}
	voucher, err := h.tally.ReceiptVoucher(receipt, items)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(voucher))
}

// MonthlyCollections returns completed-payment totals per trailing month
func (h *Handler) MonthlyCollections(w http.ResponseWriter, r *http.Request) {
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid months"})
			return
		}
		months = parsed
	}
	rows, err := h.svc.MonthlyCollections(months)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// OutstandingSummary aggregates open dues as of now
func (h *Handler) OutstandingSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.OutstandingSummary()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, value)
	}
	return d, nil
}

func parseOptionalAmount(raw *string) (decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(*raw)
}
