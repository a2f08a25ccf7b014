package checks

import "prodguard/internal/severity"

type Tier string

const (
	TierFree    Tier = "FREE"
	TierPremium Tier = "PREMIUM"
)

// Descriptor is the immutable identity of a check.
type Descriptor struct {
	Code            string         `json:"code"`
	Title           string         `json:"title"`
	DefaultSeverity severity.Level `json:"default_severity"`
	Tier            Tier           `json:"tier"`
	Description     string         `json:"description,omitempty"`
}
