// Package premium holds the effective HTTP checks. Each one issues a single
// real request against the locally running service and evaluates the
// returned status and headers.
package premium

import (
	"context"
	"errors"

	"prodguard/internal/appctx"
	"prodguard/internal/checks"
	"prodguard/internal/probe"
)

const (
	schemeHTTP  = "HTTP"
	schemeHTTPS = "HTTPS"

	startRemediation = "Ensure the application is running as a web server"
	tlsRemediation   = "Verify HTTPS connectivity and TLS configuration"
)

// exchange describes the one request an effective check sends.
type exchange struct {
	scheme string
	url    func(t checks.Target, port int) string
	// subject completes "Cannot verify ..." when the port is unknown.
	subject string
	// purpose completes "Failed to perform <scheme> request for ...".
	purpose         string
	portRemediation string
	failRemediation string
}

func httpsExchange(subject, purpose string) exchange {
	return exchange{
		scheme:          schemeHTTPS,
		url:             checks.Target.HTTPSURL,
		subject:         subject,
		purpose:         purpose,
		portRemediation: startRemediation,
		failRemediation: tlsRemediation,
	}
}

// effective is embedded by every check in this package.
type effective struct {
	desc   checks.Descriptor
	probe  probe.Probe
	target checks.Target
	ex     exchange
}

func newEffective(desc checks.Descriptor, deps checks.Deps, ex exchange) effective {
	return effective{desc: desc, probe: deps.Probe, target: deps.Target, ex: ex}
}

func (e effective) Descriptor() checks.Descriptor {
	return e.desc
}

// fetch sends the check's request. When it cannot, res is the finding to
// report and resp is nil.
func (e effective) fetch(ctx context.Context, rc appctx.Context) (resp *probe.Response, res checks.Result) {
	var port int
	ok := false
	if rc != nil {
		port, ok = rc.LocalPort()
	}
	if !ok {
		return nil, checks.PortUnavailable(e.desc, e.ex.subject, e.ex.portRemediation)
	}
	if e.probe == nil {
		return nil, checks.ProbeFailed(e.desc, e.ex.scheme, e.ex.purpose, errors.New("no probe configured"), e.ex.failRemediation)
	}

	resp, err := e.probe.Send(ctx, probe.Get(e.ex.url(e.target, port)))
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return nil, checks.ProbeFailed(e.desc, e.ex.scheme, e.ex.purpose, err, e.ex.failRemediation)
	}
	return resp, checks.Result{}
}

func (e effective) violation(message, remediation string) (checks.Result, bool) {
	return checks.Violation(e.desc, message, remediation), true
}

func pass() (checks.Result, bool) {
	return checks.Result{}, false
}
