// internal/service/admission/policy.go
package admission

// FailPolicy makes the dependency-failure behavior of an admission check
// explicit at the call site. Quota and rate checks run FailOpen in
// production: an unavailable counter store must not turn into a hard
// outage for paying tenants. Trust-boundary checks never use this.
type FailPolicy int

const (
	FailOpen FailPolicy = iota
	FailClosed
)

func (p FailPolicy) String() string {
	if p == FailClosed {
		return "fail_closed"
	}
	return "fail_open"
}
