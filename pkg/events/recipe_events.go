package events

import "time"

// Event type codes published on the bus.
const (
	TypeRecipeGenerated   = "RECIPE_GENERATED"
	TypeChatTurnCompleted = "CHAT_TURN_COMPLETED"
)

// NewRecipeGeneratedEvent fires when the pipeline invented and persisted a
// recipe that the corpus could not serve.
func NewRecipeGeneratedEvent(recipeID, sessionID, name string, allergies []string) Event {
	return BaseEvent{
		Type: TypeRecipeGenerated,
		Data: map[string]interface{}{
			"recipe_id":  recipeID,
			"session_id": sessionID,
			"name":       name,
			"allergies":  allergies,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatTurnCompletedEvent fires after every completed conversation turn.
func NewChatTurnCompletedEvent(sessionID, intent, branch string, degraded bool) Event {
	return BaseEvent{
		Type: TypeChatTurnCompleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"intent":     intent,
			"branch":     branch,
			"degraded":   degraded,
		},
		OccurredAt: time.Now(),
	}
}
