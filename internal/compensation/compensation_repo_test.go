package compensation_test

import (
	"context"
	"testing"
	"time"

	"buildhr/internal/compensation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestWithTxLedgerWritesJoinTransaction(t *testing.T) {
	poolDB, poolMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { poolDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: poolDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	repo := compensation.NewRepository(gormDB)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { txDB.Close() })

	txMock.ExpectBegin()
	tx, err := txDB.Begin()
	assert.NoError(t, err)

	txMock.ExpectExec(`UPDATE "employee_loans" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	loan := &compensation.EmployeeLoan{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		LoanType:     "company",
		Principal:    d("24000"),
		Balance:      d("14000"),
		Amortization: d("2000"),
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       compensation.LoanStatusActive,
	}
	err = repo.WithTx(tx).UpdateLoan(context.Background(), loan)

	assert.NoError(t, err)
	assert.NoError(t, txMock.ExpectationsWereMet())
	// Settlement writes must never leak onto the pooled connection.
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
