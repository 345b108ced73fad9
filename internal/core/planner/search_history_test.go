package planner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"receita-facil/internal/core/store"
	"receita-facil/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queries(entries []SearchEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Query
	}
	return out
}

func TestAddSearchMovesDuplicateToFront(t *testing.T) {
	var history []SearchEntry
	history = AddSearch(history, SearchEntry{Query: "frango"})
	history = AddSearch(history, SearchEntry{Query: "omelete"})
	history = AddSearch(history, SearchEntry{Query: "sopa"})
	history = AddSearch(history, SearchEntry{Query: "frango"})

	assert.Equal(t, []string{"frango", "sopa", "omelete"}, queries(history))
}

func TestAddSearchCapsAtTen(t *testing.T) {
	var history []SearchEntry
	for i := 0; i < 15; i++ {
		history = AddSearch(history, SearchEntry{Query: fmt.Sprintf("q%d", i)})
		require.LessOrEqual(t, len(history), MaxSearchHistory)
	}
	require.Len(t, history, MaxSearchHistory)
	assert.Equal(t, "q14", history[0].Query)
	assert.Equal(t, "q5", history[9].Query)
}

func TestSearchHistoryService(t *testing.T) {
	ctx := context.Background()
	svc := NewSearchHistoryService(store.NewMemoryStore())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	history, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, history)

	_, err = svc.Add(ctx, "u1", "  frango ", common.MealLunch)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", "aveia", common.MealBreakfast)
	require.NoError(t, err)

	// 空白查詢不記錄
	history, err = svc.Add(ctx, "u1", "   ", common.MealLunch)
	require.NoError(t, err)
	require.Len(t, history, 2)

	history, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"aveia", "frango"}, queries(history))
	assert.Equal(t, fixed.UnixMilli(), history[0].Timestamp)
	assert.Equal(t, common.MealBreakfast, history[0].MealType)
	assert.NotEmpty(t, history[0].ID)

	require.NoError(t, svc.Clear(ctx, "u1"))
	history, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, history)
}
