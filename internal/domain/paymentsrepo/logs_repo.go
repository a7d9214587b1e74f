package paymentsrepo

import (
	"context"
	"fmt"

	"arena/internal/infra/dbx"
)

type LogsRepository struct{ q dbx.Querier }

func NewLogsRepository(q dbx.Querier) *LogsRepository {
	return &LogsRepository{q: q}
}

func (r *LogsRepository) InsertPaymentLog(ctx context.Context, paymentID int64, logType string, payload any) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_logs (payment_id, log_type, payload)
		VALUES ($1, $2, $3::jsonb)
	`, paymentID, logType, EncodePayload(payload))
	if err != nil {
		return fmt.Errorf("insert payment_log: %w", err)
	}
	return nil
}

func (r *LogsRepository) ListPaymentLogs(ctx context.Context, paymentID int64) ([]PaymentLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, log_type, payload, created_at
		FROM payment_logs WHERE payment_id = $1 ORDER BY id
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment_logs: %w", err)
	}
	defer rows.Close()

	var out []PaymentLog
	for rows.Next() {
		var l PaymentLog
		var payload []byte
		if err := rows.Scan(&l.ID, &l.PaymentID, &l.LogType, &payload, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment_log: %w", err)
		}
		if len(payload) > 0 {
			l.Payload = payload
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
