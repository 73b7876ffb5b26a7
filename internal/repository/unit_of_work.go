package repository

import (
	"etf-dashboard/pkg/utils"
	"fmt"

	"gorm.io/gorm"
)

// UnitOfWork runs fn inside one transaction. Repositories join it through
// the WithTx option passed to fn.
type UnitOfWork interface {
	Run(fn func(opts ...utils.DBOption) error) (err error)
}

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

func (u *unitOfWork) Run(fn func(opts ...utils.DBOption) error) (err error) {
	tx := u.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin failed: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			if commitErr := tx.Commit().Error; commitErr != nil {
				err = fmt.Errorf("commit failed: %w", commitErr)
			}
		}
	}()

	err = fn(utils.WithTx(tx))
	return
}
