package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToErrorResponse(t *testing.T) {
	status, body := ToErrorResponse(ErrNotFound.WithMessage("Dia não encontrado"))
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, ErrCodeNotFound, body.Code)
	require.Equal(t, "Dia não encontrado", body.Error)

	status, body = ToErrorResponse(fmt.Errorf("wrapped: %w", NewValidationError("campo obrigatório")))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "campo obrigatório", body.Error)

	status, _ = ToErrorResponse(fmt.Errorf("generate: %w", context.DeadlineExceeded))
	require.Equal(t, http.StatusGatewayTimeout, status)

	status, body = ToErrorResponse(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, ErrCodeInternalError, body.Code)
}

func TestCustomErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("save plan: %w", ErrStoreUnavailable.Wrap(errors.New("dial tcp")))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "dial tcp")
}
