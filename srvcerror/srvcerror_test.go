package srvcerror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ritlepage/backend/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStatusIsInternal(t *testing.T) {
	err := srvcerror.New("something", "something went wrong")
	assert.Equal(t, http.StatusInternalServerError, err.HttpStatusCode())
	assert.Equal(t, "something went wrong", err.Error())
	assert.Nil(t, err.Details())
}

func TestDetailsAndDebugSurviveWrapping(t *testing.T) {
	cause := errors.New("disk on fire")
	err := srvcerror.New("invalid_submission", "bad input").
		SetHttpStatusCode(http.StatusBadRequest).
		AddDetail("subject_code", "must not be empty").
		SetDebug(cause)

	wrapped := fmt.Errorf("failed to generate: %w", err)

	var srvcErr *srvcerror.Error
	require.True(t, errors.As(wrapped, &srvcErr))
	assert.Equal(t, "invalid_submission", srvcErr.ErrorCode())
	assert.Equal(t, http.StatusBadRequest, srvcErr.HttpStatusCode())
	assert.Equal(t, map[string]string{"subject_code": "must not be empty"}, srvcErr.Details())
	assert.Equal(t, cause, srvcErr.DebugInfo())
}
