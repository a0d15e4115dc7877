package validation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ValidationResult contains pre-validated requester data.
type ValidationResult struct {
	UserID string
	Name   string
	Email  string
}

// PreValidateRequest confirms the requesting user exists with a single query.
// Mutating endpoints call this before touching any row.
func PreValidateRequest(ctx context.Context, db *pgxpool.Pool, userID string) (*ValidationResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT id::text, COALESCE(name, ''), COALESCE(email, '')
		FROM users
		WHERE id::text = $1
		LIMIT 1
	`

	var result ValidationResult
	err := db.QueryRow(ctx, query, userID).Scan(&result.UserID, &result.Name, &result.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	if result.UserID == "" {
		return nil, fmt.Errorf("user not found: %s", userID)
	}
	return &result, nil
}
