package errors

import (
	"errors"
	"fmt"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
)

func TestPredicatesSurviveWrapping(t *testing.T) {
	missing := MissingData(ErrCodeHousingMissing, "user %s has no housing", "u1")
	wrapped := fmt.Errorf("prepare electricity: %w", missing)

	assert.True(t, IsMissingData(wrapped))
	assert.False(t, IsPersistenceFault(wrapped))
	assert.Equal(t, ErrCodeHousingMissing, Code(wrapped))
	assert.Equal(t, 404, int(kerrors.Code(wrapped)))
}

func TestPersistenceFaultKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := PersistenceFault(ErrCodeRecordInsertFailed, cause, "insert %s", "water")

	assert.True(t, IsPersistenceFault(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeRecordInsertFailed, Code(err))
}

func TestUserEnumeration(t *testing.T) {
	err := UserEnumeration(errors.New("timeout"))
	assert.True(t, IsUserEnumeration(err))
	assert.Equal(t, ErrCodeListUsersFailed, Code(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Zero(t, Code(errors.New("plain")))
	assert.Zero(t, Code(nil))
	assert.False(t, IsMissingData(nil))
}
