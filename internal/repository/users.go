package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO coaching.users (branch_id, name, email, phone, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query, user.BranchID, user.Name, user.Email, user.Phone, user.Role, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, branch_id, name, email, phone, role, password_hash, created_at, updated_at
		FROM coaching.users
		WHERE email = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, email).
		Scan(&user.ID, &user.BranchID, &user.Name, &user.Email, &user.Phone, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, branch_id, name, email, phone, role, password_hash, created_at, updated_at
		FROM coaching.users
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).
		Scan(&user.ID, &user.BranchID, &user.Name, &user.Email, &user.Phone, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateBranch creates a new branch in the database
func (r *Repository) CreateBranch(branch *models.Branch) error {
	query := `
		INSERT INTO coaching.branches (name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query, branch.Name, branch.Address, branch.Phone).
		Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// ListBranches returns all branches
func (r *Repository) ListBranches() ([]*models.Branch, error) {
	query := `
		SELECT id, name, address, phone, created_at, updated_at
		FROM coaching.branches
		WHERE is_deleted = FALSE
		ORDER BY id`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		b := &models.Branch{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}
