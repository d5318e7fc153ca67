package kafka

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_DefaultsToPending(t *testing.T) {
	e := NewEvent("rid-1", "salary_record", "agg-1", "salary_calculated", "payroll.salary.calculated.v1", []byte(`{}`))

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, OutboxStatusPending, e.Status)
	require.NoError(t, e.Validate())
}

func TestOutboxEvent_Validate(t *testing.T) {
	e := NewEvent("rid-1", "employee", "agg-1", "employee_created", "", []byte(`{}`))
	assert.Error(t, e.Validate())

	e.Topic = "payroll.employee.lifecycle.v1"
	require.NoError(t, e.Validate())

	e.Status = "unknown"
	assert.Error(t, e.Validate())
}

func TestOutboxCreate_RejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)

	assert.Error(t, repo.Create(context.Background(), OutboxEvent{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
