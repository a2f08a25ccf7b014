package output

func errorFinding(code string) Finding {
	return Finding{
		Code:        code,
		Title:       "Effective HSTS configuration",
		Severity:    "ERROR",
		Kind:        "violation",
		Message:     "HSTS max-age is too low (100 seconds)",
		Remediation: "Use a max-age of at least 31536000 seconds (1 year)",
		Tier:        "PREMIUM",
	}
}

func warnFinding(code string) Finding {
	return Finding{
		Code:     code,
		Title:    "Effective Referrer-Policy header",
		Severity: "WARN",
		Kind:     "violation",
		Message:  "Weak Referrer-Policy detected: unsafe-url",
	}
}
