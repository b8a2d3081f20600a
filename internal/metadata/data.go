package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

const (
	// CauseUnknown: the failure does not map cleanly to any known category.
	// Used as a safe fallback.
	CauseUnknown ErrorCause = iota
	// CauseNetworkFailure: network transport or remote availability failure
	// (TCP timeouts, DNS resolution failures, connection resets).
	CauseNetworkFailure
	// CausePolicyDisallow: access denied by an explicit remote policy
	// (HTTP 403/429, anti-bot challenge pages).
	CausePolicyDisallow
	// CauseContentInvalid: content was fetched but could not be processed
	// meaningfully (unparsable markup, empty document bodies).
	CauseContentInvalid
	// CauseStorageFailure: failure while persisting the audit report.
	CauseStorageFailure
	// CauseRetryFailure: a retry chain exhausted all attempts.
	CauseRetryFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseRetryFailure:
		return "retry_failure"
	default:
		return "unknown"
	}
}

type AttributeKey string

const (
	AttrURL       AttributeKey = "url"
	AttrMessage   AttributeKey = "message"
	AttrField     AttributeKey = "field"
	AttrWritePath AttributeKey = "write_path"
	AttrStrategy  AttributeKey = "strategy"
)

type Attribute struct {
	key   AttributeKey
	value string
}

func NewAttr(key AttributeKey, value string) Attribute {
	return Attribute{key: key, value: value}
}

func (a Attribute) Key() AttributeKey { return a.key }
func (a Attribute) Value() string     { return a.value }

/*
runStats
  - Represents a terminal, derived summary of a completed audit run
  - Contains only aggregate counts and durations
  - Is computed by the runner after run termination
  - Is recorded exactly once
  - Must not influence scheduling, retries, or run termination
*/
type runStats struct {
	totalPages  int
	totalFailed int
	totalIssues int
	durationMs  int64
}
