package repository

import (
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AddUser stores a new user, enforcing email uniqueness
func (r *MemoryRepo) AddUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("add user %s: %w", user.Email, auctionerrors.ErrDuplicateEmail)
		}
	}
	r.users[user.UserID] = user
	return nil
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByEmail returns a user by email
func (r *MemoryRepo) GetUserByEmail(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("get user by email %s: %w", email, auctionerrors.ErrUserNotFound)
}

// ListUsers returns all users
func (r *MemoryRepo) ListUsers() ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

// UpdateUser replaces a stored user
func (r *MemoryRepo) UpdateUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; !ok {
		return fmt.Errorf("update user %s: %w", user.UserID, auctionerrors.ErrUserNotFound)
	}
	r.users[user.UserID] = user
	return nil
}

// DeleteUser removes a user
func (r *MemoryRepo) DeleteUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return fmt.Errorf("delete user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	delete(r.users, userID)
	return nil
}

// AdjustBalance applies a signed delta to a user's balance while holding the
// write lock, so debit and credit of a settlement cannot interleave with
// reads of a stale balance. A delta that would drive the balance negative
// fails with ErrInsufficientBalance.
func (r *MemoryRepo) AdjustBalance(userID string, delta float64) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("adjust balance for user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}

	next := user.Balance + delta
	if next < 0 {
		return model.User{}, fmt.Errorf("adjust balance for user %s: %w", userID, auctionerrors.ErrInsufficientBalance)
	}

	user.Balance = next
	r.users[userID] = user
	return user, nil
}
