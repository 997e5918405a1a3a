package repository

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/models"
)

// MonthlyCollections returns completed-payment totals grouped by month for
// the trailing window
func (r *Repository) MonthlyCollections(from, to time.Time) ([]*models.MonthlyCollection, error) {
	query := `
		SELECT to_char(payment_date, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0), COUNT(*)
		FROM coaching.payments
		WHERE status = 'Completed' AND payment_date >= $1 AND payment_date < $2
		GROUP BY month
		ORDER BY month`
	rows, err := r.q.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly collections: %w", err)
	}
	defer rows.Close()

	var stats []*models.MonthlyCollection
	for rows.Next() {
		mc := &models.MonthlyCollection{}
		if err := rows.Scan(&mc.Month, &mc.Collected, &mc.Payments); err != nil {
			return nil, fmt.Errorf("failed to scan monthly collection: %w", err)
		}
		stats = append(stats, mc)
	}
	return stats, rows.Err()
}

// OutstandingSummary aggregates dues across all non-terminal fees. The
// overdue determination mirrors the ledger rule: FullCourse fees anchor on
// their start date, everything else on the due date.
func (r *Repository) OutstandingSummary(today time.Time) (*models.OutstandingSummary, error) {
	s := &models.OutstandingSummary{}
	query := `
		SELECT
			COALESCE(SUM(final_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(final_amount - paid_amount), 0),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'PartiallyPaid'),
			COUNT(*) FILTER (WHERE overdue),
			COALESCE(SUM(final_amount - paid_amount) FILTER (WHERE overdue), 0)
		FROM (
			SELECT final_amount, paid_amount, status,
				CASE WHEN fee_category = 'FullCourse'
					THEN COALESCE(start_date, due_date) < $1
					ELSE due_date < $1
				END AS overdue
			FROM coaching.student_fees
			WHERE status IN ('Pending', 'PartiallyPaid') AND is_deleted = FALSE
		) open_fees`
	err := r.q.QueryRow(query, today).Scan(
		&s.TotalBilled, &s.TotalCollected, &s.TotalOutstanding,
		&s.PendingFees, &s.PartiallyPaid, &s.OverdueFees, &s.OverdueAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding summary: %w", err)
	}
	return s, nil
}
