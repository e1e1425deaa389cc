package internaldefs

import (
	"github.com/MrEthical07/campusdesk"
)

// CounterDef names one counter.
type CounterDef struct {
	ID   campusdesk.MetricID
	Name string
	Help string
}

// HistogramDef names one latency histogram.
type HistogramDef struct {
	ID   campusdesk.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in [campusdesk.MetricID] order.
var CounterDefs = []CounterDef{
	{ID: campusdesk.MetricAPIRequest, Name: "campusdesk_api_requests_total", Help: "Backend requests issued."},
	{ID: campusdesk.MetricAPIFailure, Name: "campusdesk_api_failures_total", Help: "Backend requests that failed or returned a non-2xx status."},
	{ID: campusdesk.MetricAPIUnauthorized, Name: "campusdesk_api_unauthorized_total", Help: "Backend responses with status 401."},
	{ID: campusdesk.MetricValidationRejected, Name: "campusdesk_validation_rejected_total", Help: "Forms refused locally without a request."},
	{ID: campusdesk.MetricLoginSuccess, Name: "campusdesk_login_success_total", Help: "Successful logins."},
	{ID: campusdesk.MetricLoginFailure, Name: "campusdesk_login_failure_total", Help: "Failed logins."},
	{ID: campusdesk.MetricRegisterSuccess, Name: "campusdesk_register_success_total", Help: "Successful registrations."},
	{ID: campusdesk.MetricRegisterFailure, Name: "campusdesk_register_failure_total", Help: "Failed registrations."},
	{ID: campusdesk.MetricResetSuccess, Name: "campusdesk_password_reset_success_total", Help: "Successful password resets."},
	{ID: campusdesk.MetricResetFailure, Name: "campusdesk_password_reset_failure_total", Help: "Failed password resets."},
	{ID: campusdesk.MetricForgotPassword, Name: "campusdesk_forgot_password_total", Help: "Reset links requested."},
	{ID: campusdesk.MetricLogout, Name: "campusdesk_logout_total", Help: "Logouts, user-initiated or after a reset."},
	{ID: campusdesk.MetricForcedLogout, Name: "campusdesk_forced_logout_total", Help: "Sessions ended by a 401 response."},
	{ID: campusdesk.MetricSessionRestored, Name: "campusdesk_session_restored_total", Help: "Persisted sessions restored at startup."},
	{ID: campusdesk.MetricSessionExpired, Name: "campusdesk_session_expired_total", Help: "Persisted sessions dropped as expired."},
	{ID: campusdesk.MetricComplaintCreated, Name: "campusdesk_complaint_created_total", Help: "Complaints raised, anonymous included."},
	{ID: campusdesk.MetricComplaintStatusUpdated, Name: "campusdesk_complaint_status_updated_total", Help: "Complaint status changes."},
	{ID: campusdesk.MetricInviteCreated, Name: "campusdesk_invite_created_total", Help: "Invitations sent."},
	{ID: campusdesk.MetricMealChosen, Name: "campusdesk_meal_chosen_total", Help: "Meal preferences recorded."},
	{ID: campusdesk.MetricScheduleUploaded, Name: "campusdesk_schedule_uploaded_total", Help: "Weekly menus uploaded."},
	{ID: campusdesk.MetricFeedbackSubmitted, Name: "campusdesk_feedback_submitted_total", Help: "Meal ratings submitted."},
	{ID: campusdesk.MetricFeedbackPrompted, Name: "campusdesk_feedback_prompted_total", Help: "Meal feedback prompts shown."},
	{ID: campusdesk.MetricChatMessage, Name: "campusdesk_chat_messages_total", Help: "Messages relayed to the assistant."},
	{ID: campusdesk.MetricPollTick, Name: "campusdesk_poll_ticks_total", Help: "Poller iterations."},
	{ID: campusdesk.MetricNoticeEmitted, Name: "campusdesk_notices_emitted_total", Help: "Notices emitted."},
}

// HistogramDefs lists the latency histograms.
var HistogramDefs = []HistogramDef{
	{ID: campusdesk.MetricAPILatency, Name: "campusdesk_api_latency_seconds", Help: "Backend request latency."},
}

// Gauge-like counters read from the desk outside the snapshot.
const (
	NoticesDroppedName        = "campusdesk_notices_dropped_total"
	NoticesDroppedHelp        = "Notices dropped by a full dispatcher queue."
	SessionUpdatesDroppedName = "campusdesk_session_updates_dropped_total"
	SessionUpdatesDroppedHelp = "Session snapshots missed by slow subscribers."
)

// HistogramUpperBounds are the bucket upper bounds in seconds, excluding +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf last.
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

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
