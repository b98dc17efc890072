package store

// ClassificationLog records the outcome of one handled message.
// The message text itself is never stored.
type ClassificationLog struct {
	ID        int64               `json:"id"`
	UID       string              `json:"uid"`
	RequestID string              `json:"request_id"`
	Platform  string              `json:"platform"`
	Intents   []string            `json:"intents"`  // detected intents, best first
	Entities  map[string][]string `json:"entities"` // entity type -> lowercased values
	Outcome   string              `json:"outcome"`  // answered, generic_help or not_sure
	LatencyMs int64               `json:"latency_ms"`
	CreatedTs int64               `json:"created_ts"`
}

// FindClassificationLog specifies conditions for listing classification logs.
type FindClassificationLog struct {
	Platform *string
	Outcome  *string
	Limit    int
}
