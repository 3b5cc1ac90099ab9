//go:build unit

package uow

import (
	"testing"

	"leadgate/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func serializationFailure() error {
	return errs.Wrap(&pgconn.PgError{Code: pgErrCodeSerializationFailure}, "commit failed")
}

func uniqueViolation() error {
	return errs.Wrap(&pgconn.PgError{Code: "23505"}, "insert failed")
}

func TestShouldRetry(t *testing.T) {
	const maxRetries = 3

	assert.True(t, shouldRetry(serializationFailure(), 0, maxRetries))
	assert.False(t, shouldRetry(serializationFailure(), maxRetries, maxRetries))
	assert.False(t, shouldRetry(uniqueViolation(), 0, maxRetries))
	assert.False(t, shouldRetry(errs.New("not a pg error"), 0, maxRetries))
}

func TestFinalErr(t *testing.T) {
	const maxRetries = 3

	t.Run("retryable exhaustion is marked", func(t *testing.T) {
		err := finalErr(serializationFailure(), maxRetries, maxRetries)
		assert.True(t, errs.Is(err, ErrMaxRetriesExceeded))
	})

	t.Run("non-retryable error on the last attempt keeps its classification", func(t *testing.T) {
		cause := uniqueViolation()
		err := finalErr(cause, maxRetries, maxRetries)
		assert.False(t, errs.Is(err, ErrMaxRetriesExceeded))
		assert.Equal(t, cause, err)
	})

	t.Run("non-retryable error on an early attempt is returned as is", func(t *testing.T) {
		cause := uniqueViolation()
		assert.Equal(t, cause, finalErr(cause, 0, maxRetries))
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrCodeSerializationFailure}))
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrCodeDeadlockDetected}))
	assert.False(t, isRetryableError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryableError(errs.New("plain error")))
}
