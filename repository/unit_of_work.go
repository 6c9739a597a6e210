package repository

import (
	"context"
	"fmt"

	"dotabet/database"
	"dotabet/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface on a pgx transaction.
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	userRepo         interfaces.UserRepository
	inPlayRepo       interfaces.InPlayRepository
	completedBetRepo interfaces.CompletedBetRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory.
func NewUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Create creates a new UnitOfWork.
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepository(tx)
	u.inPlayRepo = newInPlayRepository(tx)
	u.completedBetRepo = newCompletedBetRepository(tx)

	return nil
}

// Commit commits the transaction.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Calling it after Commit is a no-op,
// which allows the usual `defer uow.Rollback()` pattern.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// UserRepository returns the transaction-scoped user repository.
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	return u.userRepo
}

// InPlayRepository returns the transaction-scoped in-play repository.
func (u *unitOfWork) InPlayRepository() interfaces.InPlayRepository {
	return u.inPlayRepo
}

// CompletedBetRepository returns the transaction-scoped completed bet repository.
func (u *unitOfWork) CompletedBetRepository() interfaces.CompletedBetRepository {
	return u.completedBetRepo
}
