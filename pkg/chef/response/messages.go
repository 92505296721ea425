package response

// Node-specific safe fallback strings. Returned when a stage failed; the
// error itself only surfaces in metadata.
const (
	FallbackIntent    = "I had trouble understanding that. Could you tell me what you'd like to cook?"
	FallbackSearch    = "I couldn't reach the recipe library just now. Tell me an ingredient you have and I'll improvise with you."
	FallbackGenerate  = "I couldn't put together a full recipe this time. Try naming a main ingredient or a cuisine and I'll give it another go."
	FallbackCompose   = "Something went wrong while writing up my answer. The short version: tell me a dish or ingredient and I'll take it from there."
	ClarifyEmptyQuery = "What would you like to cook today? Name a dish, an ingredient, or a cuisine."
)
