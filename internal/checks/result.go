package checks

import (
	"fmt"

	"prodguard/internal/severity"
)

// Kind separates policy violations from findings that only say the policy
// could not be verified.
type Kind string

const (
	KindViolation           Kind = "violation"
	KindVerificationFailure Kind = "verification-failure"
)

type Result struct {
	Descriptor  Descriptor
	Message     string
	Remediation string
	Kind        Kind
}

func (r Result) Code() string {
	return r.Descriptor.Code
}

// DefaultSeverity is the severity used when no override names the code.
// A verification failure is always ERROR: an unverifiable posture blocks
// startup regardless of the check's own default.
func (r Result) DefaultSeverity() severity.Level {
	if r.Kind == KindVerificationFailure {
		return severity.LevelError
	}
	return r.Descriptor.DefaultSeverity
}

func Violation(d Descriptor, message, remediation string) Result {
	return Result{Descriptor: d, Message: message, Remediation: remediation, Kind: KindViolation}
}

func VerificationFailure(d Descriptor, message, remediation string) Result {
	return Result{Descriptor: d, Message: message, Remediation: remediation, Kind: KindVerificationFailure}
}

// PortUnavailable reports that subject cannot be verified because the runtime
// context has no local port.
func PortUnavailable(d Descriptor, subject, remediation string) Result {
	return VerificationFailure(d,
		fmt.Sprintf("Cannot verify %s: local server port is not available", subject),
		remediation,
	)
}

// ProbeFailed reports a transport failure. scheme is "HTTP" or "HTTPS".
func ProbeFailed(d Descriptor, scheme, purpose string, err error, remediation string) Result {
	msg := fmt.Sprintf("Failed to perform %s request for %s", scheme, purpose)
	if err != nil {
		msg += ": " + err.Error()
	}
	return VerificationFailure(d, msg, remediation)
}
