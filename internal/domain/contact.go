package domain

// SupportContact is reference data shown in the subscription upsell flow:
// a person readers can message to arrange payment. Handles are keyed by
// channel name (whatsapp, telegram, messenger, viber, ...), one per channel.
type SupportContact struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Handles map[string]string `json:"handles,omitempty"`
}
