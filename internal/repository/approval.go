package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
)

type approvalRepo struct{}

// NewApprovalRepository returns a pgx-backed ApprovalRepository.
func NewApprovalRepository() ApprovalRepository {
	return &approvalRepo{}
}

const approvalColumns = `id, request_id, voter_user_id, approved, counter_value, created_at`

func (r *approvalRepo) Insert(ctx context.Context, db DBTX, approval *domain.Approval) (*domain.Approval, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO request_approvals (id, request_id, voter_user_id, approved, counter_value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+approvalColumns,
		approval.ID, approval.RequestID, approval.VoterUserID,
		approval.Approved, approval.CounterValue,
	)
	stored, err := scanApproval(row)
	if err != nil {
		if mapped := mapInsertError(err); mapped == ErrDuplicate {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert approval: %w", err)
	}
	return stored, nil
}

func (r *approvalRepo) ListByRequest(ctx context.Context, db DBTX, requestID uuid.UUID) ([]domain.Approval, error) {
	rows, err := db.Query(ctx, `
		SELECT `+approvalColumns+` FROM request_approvals
		WHERE request_id = $1
		ORDER BY created_at ASC, id ASC`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []domain.Approval
	for rows.Next() {
		var a domain.Approval
		if err := rows.Scan(&a.ID, &a.RequestID, &a.VoterUserID,
			&a.Approved, &a.CounterValue, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval row: %w", err)
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *approvalRepo) FindByRequestAndVoter(ctx context.Context, db DBTX, requestID, voterUserID uuid.UUID) (*domain.Approval, error) {
	row := db.QueryRow(ctx, `
		SELECT `+approvalColumns+` FROM request_approvals
		WHERE request_id = $1 AND voter_user_id = $2`, requestID, voterUserID)
	return scanApproval(row)
}

func scanApproval(row pgx.Row) (*domain.Approval, error) {
	var a domain.Approval
	err := row.Scan(&a.ID, &a.RequestID, &a.VoterUserID, &a.Approved, &a.CounterValue, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
