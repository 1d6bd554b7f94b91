// Package metrics defines and registers all custom Prometheus metrics for the
// GigIndia access gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; /metrics serves them alongside the HTTP request
// metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gigindia"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts request gate outcomes.
// Label:
//   - outcome: "public", "bypassed", "verified", "unauthenticated" or "forbidden"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of request gate decisions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionVerifyFailuresTotal counts rejected session credentials.
// Label:
//   - reason: "missing", "malformed", "forged", "expired", "revoked" or "error"
var SessionVerifyFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_verify_failures_total",
		Help:      "Total number of session credentials rejected by the gate, by reason.",
	},
	[]string{"reason"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts session credentials issued at login.
// Label:
//   - role: the role carried by the credential
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session credentials issued, by role.",
	},
	[]string{"role"},
)

// ── Provisioning metrics ──────────────────────────────────────────────────────

// ProfilesProvisionedTotal counts provisioning attempts.
// Labels:
//   - user_type: "freelancer" or "employer" (raw input on validation failures)
//   - outcome: "created", "existing", "invalid" or "failed"
var ProfilesProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_provisioned_total",
		Help:      "Total number of profile provisioning attempts, by user type and outcome.",
	},
	[]string{"user_type", "outcome"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of provisioning audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteErrorsTotal counts audit events that could not be persisted.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of provisioning audit events that failed to persist.",
	},
)
