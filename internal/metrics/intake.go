package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 申请提交结果标签。
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"
	OutcomeFailed    = "failed"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hireform",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "申请提交总数，按结果区分。",
		},
		[]string{"outcome"},
	)

	fieldErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hireform",
			Subsystem: "intake",
			Name:      "field_errors_total",
			Help:      "校验失败的字段计数。",
		},
		[]string{"field"},
	)

	adminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hireform",
			Subsystem: "admin",
			Name:      "logins_total",
			Help:      "管理后台登录尝试次数。",
		},
		[]string{"result"},
	)
)

// ObserveSubmission 记录一次提交结果。
func ObserveSubmission(outcome string, fields map[string]string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
	for field := range fields {
		fieldErrorsTotal.WithLabelValues(field).Inc()
	}
}

// ObserveAdminLogin records a login attempt, result is "ok", "denied", "throttled" or "misconfigured".
func ObserveAdminLogin(result string) {
	adminLoginsTotal.WithLabelValues(result).Inc()
}
