package internaldefs

import (
	"github.com/jwtgate/jwtgate"
)

// CounterDef maps an engine counter to its exported metric name.
type CounterDef struct {
	ID   jwtgate.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported metric name.
type HistogramDef struct {
	ID   jwtgate.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter in export order.
var CounterDefs = []CounterDef{
	{ID: jwtgate.MetricLoginSuccess, Name: "jwtgate_login_success_total", Help: "Successful login attempts."},
	{ID: jwtgate.MetricLoginFailure, Name: "jwtgate_login_failure_total", Help: "Failed login attempts."},
	{ID: jwtgate.MetricAccessIssued, Name: "jwtgate_access_token_issued_total", Help: "Issued access tokens."},
	{ID: jwtgate.MetricRefreshIssued, Name: "jwtgate_refresh_token_issued_total", Help: "Issued refresh tokens."},
	{ID: jwtgate.MetricIssueRevoked, Name: "jwtgate_issue_revoked_total", Help: "Token issuance denied by a revoked secret."},
	{ID: jwtgate.MetricIssueDenied, Name: "jwtgate_issue_denied_total", Help: "Token issuance denied by the identity check."},
	{ID: jwtgate.MetricValidateSuccess, Name: "jwtgate_validate_success_total", Help: "Tokens that passed validation."},
	{ID: jwtgate.MetricValidateNoToken, Name: "jwtgate_validate_no_token_total", Help: "Validation calls with no credential present."},
	{ID: jwtgate.MetricValidateInvalid, Name: "jwtgate_validate_invalid_total", Help: "Tokens rejected as malformed, expired, or mis-signed."},
	{ID: jwtgate.MetricValidateIssuerMismatch, Name: "jwtgate_validate_issuer_mismatch_total", Help: "Tokens rejected by the issuer allow-list."},
	{ID: jwtgate.MetricValidateMissingUser, Name: "jwtgate_validate_missing_user_total", Help: "Tokens rejected for a missing user claim."},
	{ID: jwtgate.MetricValidateRevoked, Name: "jwtgate_validate_revoked_total", Help: "Tokens rejected by a revoked or rotated secret."},
	{ID: jwtgate.MetricRefreshSuccess, Name: "jwtgate_refresh_success_total", Help: "Successful refresh operations."},
	{ID: jwtgate.MetricRefreshFailure, Name: "jwtgate_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: jwtgate.MetricSecretRevoked, Name: "jwtgate_secret_revoked_total", Help: "User secret revocations."},
	{ID: jwtgate.MetricSecretUnrevoked, Name: "jwtgate_secret_unrevoked_total", Help: "User secret unrevocations."},
	{ID: jwtgate.MetricSecretRotated, Name: "jwtgate_secret_rotated_total", Help: "User secret rotations."},
	{ID: jwtgate.MetricHeaderTokenIssued, Name: "jwtgate_header_token_issued_total", Help: "Tokens re-issued via response headers."},
}

// HistogramDefs lists every engine histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: jwtgate.MetricValidateLatency, Name: "jwtgate_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds holds the upper bucket bounds as Prometheus `le` label
// values, matching the engine's histogram layout.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds the same bounds as identifier-safe suffixes
// for exporters that cannot carry labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a snapshot bucket slice into the fixed layout,
// ignoring extra entries and zero-filling missing ones.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
