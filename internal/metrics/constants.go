package metrics

// Metric names
const (
	MetricNameTransactionsTotal  = "loadout_transactions_total"
	MetricNameCurrencySpent      = "loadout_currency_spent_total"
	MetricNameCurrencyEarned     = "loadout_currency_earned_total"
	MetricNameProviderChanges    = "loadout_unique_provider_changes_total"
	MetricNameEffectCallFailures = "loadout_effect_call_failures_total"
	MetricNameReplayHits         = "loadout_request_replay_hits_total"
	MetricNameParticipants       = "loadout_participants"

	MetricNameHTTPRequestsTotal   = "loadout_http_requests_total"
	MetricNameHTTPRequestDuration = "loadout_http_request_duration_seconds"
)

// Help text
const (
	HelpTextTransactionsTotal  = "Total number of inventory transactions by kind and outcome"
	HelpTextCurrencySpent      = "Total currency spent buying items"
	HelpTextCurrencyEarned     = "Total currency paid out selling items"
	HelpTextProviderChanges    = "Total number of unique identifier provider registrations and releases"
	HelpTextEffectCallFailures = "Total number of failed effect subsystem calls"
	HelpTextReplayHits         = "Total number of transaction requests answered from the replay cache"
	HelpTextParticipants       = "Current number of participants held by the host"

	HelpTextHTTPRequestsTotal   = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration = "HTTP request latency in seconds"
)

// Labels
const (
	LabelKind    = "kind"
	LabelOutcome = "outcome"
	LabelAction  = "action"
	LabelCall    = "call"
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
)

// Label values
const (
	KindBuy    = "buy"
	KindSell   = "sell"
	KindUse    = "use"
	KindEquip  = "equip"
	KindRemove = "remove"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"

	ActionRegistered  = "registered"
	ActionReleased    = "released"
	ActionRegenerated = "regenerated"
)
