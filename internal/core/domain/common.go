package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps creation and update fields with the same user and time.
func NewAuditFields(userID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// Touch records an update by userID at now.
func (a *AuditFields) Touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// Actor is the authenticated caller of an operation, resolved by the auth layer.
type Actor struct {
	OrganizationID string `json:"organizationID"`
	UserID         string `json:"userID"`
	Role           string `json:"role"`
}

// AuditRecord is a write-only record of a mutation.
type AuditRecord struct {
	OrganizationID string
	UserID         string
	Action         string
	Resource       string
	ResourceID     string
	Before         any
	After          any
	OccurredAt     time.Time
}
