package output

import (
	"prodguard/internal/checks"
	"prodguard/internal/severity"
)

// Finding is the reported form of a check result after severity resolution.
type Finding struct {
	Code        string `json:"code"`
	Title       string `json:"title,omitempty"`
	Severity    string `json:"severity"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
	Tier        string `json:"tier,omitempty"`
}

func NewFinding(r checks.Result, eff severity.Effective) Finding {
	return Finding{
		Code:        r.Descriptor.Code,
		Title:       r.Descriptor.Title,
		Severity:    string(eff),
		Kind:        string(r.Kind),
		Message:     r.Message,
		Remediation: r.Remediation,
		Tier:        string(r.Descriptor.Tier),
	}
}
