package domain

// EngagementRecord is reference data describing a partner's track record on
// an external engagement platform. Immutable once inserted; keyed by the
// partner-assigned engagement identifier and ordered by it for successor
// lookups.
type EngagementRecord struct {
	EngagementID int64   `json:"engagement_id"`
	Social       float64 `json:"social_engagement"`
	Financial    float64 `json:"financial_engagement"`
	GigWorker    float64 `json:"gig_worker_engagement"`
	Job          float64 `json:"job_engagement"`
}
