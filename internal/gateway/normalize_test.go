package gateway

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHistoryEmpty(t *testing.T) {
	assert.Empty(t, NormalizeHistory(nil))
	assert.Empty(t, NormalizeHistory([]ChatTurn{}))
}

func TestNormalizeHistoryRoleMapping(t *testing.T) {
	turns := NormalizeHistory([]ChatTurn{
		{Role: "user", Content: "hola"},
		{Role: "assistant", Content: "buenos días"},
		{Role: "bot", Content: "¿en qué puedo ayudar?"},
		{Role: "", Content: "sin rol"},
	})

	require.Len(t, turns, 4)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleModel, turns[1].Role)
	assert.Equal(t, RoleModel, turns[2].Role)
	assert.Equal(t, RoleModel, turns[3].Role)
	assert.Equal(t, "buenos días", turns[1].Content)
}

func TestNormalizeHistoryKeepsLastTen(t *testing.T) {
	var history []ChatTurn
	for i := 0; i < 25; i++ {
		history = append(history, ChatTurn{Role: "user", Content: fmt.Sprintf("mensaje %d", i)})
	}

	turns := NormalizeHistory(history)

	require.Len(t, turns, maxHistoryTurns)
	// Original relative order preserved: entries 15..24.
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("mensaje %d", 15+i), turn.Content)
	}
}
