package gateway

// maxHistoryTurns bounds the conversation context sent upstream to cap
// payload size and latency. Older turns are dropped silently.
const maxHistoryTurns = 10

// NormalizeHistory reshapes client-supplied history into the backend's turn
// format: the most recent maxHistoryTurns entries, in their original order,
// with roles mapped into the two-value vocabulary. Pure; never fails.
func NormalizeHistory(history []ChatTurn) []Turn {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	turns := make([]Turn, 0, len(history))
	for _, t := range history {
		role := RoleModel
		if t.Role == RoleUser {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: t.Content})
	}
	return turns
}
