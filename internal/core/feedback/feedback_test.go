package feedback

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"receita-facil/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	svc := NewService()

	got, err := svc.Submit(context.Background(), "u1", "  Adorei as receitas <script>alert(1)</script>& dicas  ")
	require.NoError(t, err)
	require.Equal(t, "Adorei as receitas & dicas", got)
}

func TestSubmitBlank(t *testing.T) {
	svc := NewService()

	for _, text := range []string{"", "   ", "<b></b>"} {
		_, err := svc.Submit(context.Background(), "u1", text)
		require.True(t, common.IsValidationError(err))
		require.Equal(t, "Por favor, escreva seu feedback antes de enviar.", err.Error())
	}
}

func TestSubmitTruncates(t *testing.T) {
	svc := NewService()

	got, err := svc.Submit(context.Background(), "u1", strings.Repeat("á", MaxLength+10))
	require.NoError(t, err)
	require.Equal(t, MaxLength, utf8.RuneCountInString(got))
}
