package hub

// Events sent by clients.
const (
	EventAdminJoinMonitoring = "admin-join-monitoring"
	EventStudentStartedTest  = "student-started-test"
	EventViolationDetected   = "violation-detected"
	EventRequestTimerSync    = "request-timer-sync"
	EventAdminTerminateTest  = "admin-terminate-test"
	EventAdminSendWarning    = "admin-send-warning"
)

// Events sent by the server.
const (
	EventStudentJoined       = "student-joined"
	EventViolationAlert      = "violation-alert"
	EventAutoSubmitAlert     = "auto-submit-alert"
	EventTestAutoSubmitted   = "test-auto-submitted"
	EventTimerSyncResponse   = "timer-sync-response"
	EventTerminateTest       = "terminate-test"
	EventWarningFromAdmin    = "warning-from-admin"
	EventStudentSnapshot     = "student-snapshot"
	EventStudentDisconnected = "student-disconnected"
)
