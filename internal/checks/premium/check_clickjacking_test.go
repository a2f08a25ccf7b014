package premium

import "testing"

func TestClickjackingCheck_Evaluate(t *testing.T) {
	runCases(t, NewClickjackingCheck, []evalCase{
		{name: "deny", headers: map[string][]string{"X-Frame-Options": {"DENY"}}},
		{name: "sameorigin", headers: map[string][]string{"x-frame-options": {"sameorigin"}}},
		{
			name:    "invalid value",
			headers: map[string][]string{"X-Frame-Options": {"ALLOW-FROM https://x"}},
			want:    "Invalid X-Frame-Options value: ALLOW-FROM https://x",
		},
		{
			name: "invalid xfo is not rescued by csp",
			headers: map[string][]string{
				"X-Frame-Options":         {"ALLOWALL"},
				"Content-Security-Policy": {"frame-ancestors 'none'"},
			},
			want: "Invalid X-Frame-Options value: ALLOWALL",
		},
		{name: "csp fallback", headers: map[string][]string{"Content-Security-Policy": {"default-src 'self'; frame-ancestors 'self'"}}},
		{
			name:    "csp without frame-ancestors",
			headers: map[string][]string{"Content-Security-Policy": {"default-src 'self'"}},
			want:    "No clickjacking protection detected",
		},
		{name: "neither", want: "No clickjacking protection detected"},
	})
}
