package queue

const (
	TypeRetentionPurge = "retention:purge"
)

type RetentionPurgePayload struct {
	Days int `json:"days"`
}
