package checks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"prodguard/internal/severity"
)

func TestTarget_URLs(t *testing.T) {
	var zero Target
	assert.Equal(t, "http://localhost:8080/", zero.HTTPURL(8080))
	assert.Equal(t, "https://localhost:8443/", zero.HTTPSURL(8443))
	assert.Equal(t, "http://localhost:8080/actuator/health", zero.HeadersURL(8080))

	custom := Target{Host: "::1", Path: "login", HeadersPath: "/healthz"}
	assert.Equal(t, "http://[::1]:80/login", custom.HTTPURL(80))
	assert.Equal(t, "https://[::1]:443/login", custom.HTTPSURL(443))
	assert.Equal(t, "http://[::1]:80/healthz", custom.HeadersURL(80))
}

func TestResult_Helpers(t *testing.T) {
	d := Descriptor{Code: "PG-203", DefaultSeverity: severity.LevelError}

	v := Violation(d, "m", "r")
	assert.Equal(t, KindViolation, v.Kind)
	assert.Equal(t, "PG-203", v.Code())
	assert.Equal(t, severity.LevelError, v.DefaultSeverity())

	p := PortUnavailable(d, "HSTS configuration", "start the server")
	assert.Equal(t, KindVerificationFailure, p.Kind)
	assert.Equal(t, "Cannot verify HSTS configuration: local server port is not available", p.Message)

	f := ProbeFailed(d, "HTTPS", "HSTS inspection", errors.New("connection refused"), "r")
	assert.Equal(t, KindVerificationFailure, f.Kind)
	assert.Equal(t, "Failed to perform HTTPS request for HSTS inspection: connection refused", f.Message)
}

func TestResult_VerificationFailureIsError(t *testing.T) {
	d := Descriptor{Code: "PG-207", DefaultSeverity: severity.LevelWarn}

	assert.Equal(t, severity.LevelWarn, Violation(d, "m", "r").DefaultSeverity())
	assert.Equal(t, severity.LevelError, PortUnavailable(d, "Referrer-Policy", "r").DefaultSeverity())
	assert.Equal(t, severity.LevelError, ProbeFailed(d, "HTTPS", "Referrer-Policy inspection", nil, "r").DefaultSeverity())
}

func TestDirectives(t *testing.T) {
	parts := SplitDirectives(" max-age=31536000 ; includeSubDomains;;preload ")
	assert.Equal(t, []string{"max-age=31536000", "includeSubDomains", "preload"}, parts)

	v, ok := DirectiveParam(parts, "MAX-AGE")
	assert.True(t, ok)
	assert.Equal(t, "31536000", v)

	_, ok = DirectiveParam(parts, "includesubdomains")
	assert.False(t, ok, "bare directives carry no value")

	assert.True(t, HasDirective(parts, "includesubdomains"))
	assert.False(t, HasDirective(parts, "max"))

	v, ok = DirectiveParam(SplitDirectives(`max-age="600"`), "max-age")
	assert.True(t, ok)
	assert.Equal(t, "600", v)

	assert.Equal(t, "default-src", DirectiveName("default-src 'self' *"))
	assert.Equal(t, "samesite", DirectiveName("SameSite=Strict"))
}
