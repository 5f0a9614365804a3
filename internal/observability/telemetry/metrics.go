package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	SignupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paradox_signups_total",
		Help: "Total user signups by plan",
	}, []string{"plan", "user_type"})

	TasksCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paradox_tasks_completed_total",
		Help: "Total task completions credited",
	})

	ReferralCommissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paradox_referral_commissions_total",
		Help: "Total referral commissions credited",
	})

	EarningsCreditedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paradox_earnings_credited_naira_total",
		Help: "Total amount credited to user balances",
	})

	WithdrawalRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paradox_withdrawal_requests_total",
		Help: "Total accepted withdrawal requests",
	})

	VerificationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paradox_verification_attempts_total",
		Help: "Total OTP verification attempts",
	}, []string{"channel", "result"})

	// Infrastructure metrics
	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paradox_database_latency_seconds",
		Help:    "Database query latency",
		Buckets: prometheus.DefBuckets,
	})
)
