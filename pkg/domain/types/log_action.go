package types

// LogAction represents an auditable action recorded in the audit log
type LogAction string

const (
	ActionLogin             LogAction = "User Login"
	ActionLogout            LogAction = "User Logout"
	ActionLoginFailed       LogAction = "Failed Login Attempt"
	ActionUserCreated       LogAction = "Admin Created User"
	ActionAdminPasswordReset LogAction = "Admin Reset Password"
	ActionPasswordChanged   LogAction = "User Changed Password"
	ActionViewExplanation   LogAction = "Viewed Alert Explanation"
	ActionRefreshData       LogAction = "Manually Refreshed Data"
	ActionUserRoleChanged   LogAction = "User Role Changed"
	ActionUserStatusChanged LogAction = "User Status Changed"
	ActionUserDeptChanged   LogAction = "User Department Changed"
	ActionLogsUploaded      LogAction = "Log File Ingested"
	ActionCaseStarted       LogAction = "Started Investigation"
	ActionCaseUpdated       LogAction = "Updated Investigation"
	ActionCaseClosed        LogAction = "Closed Investigation"
	ActionCaseMemberAdded   LogAction = "Added Member to Investigation"
	ActionCaseMemberRemoved LogAction = "Removed Member from Investigation"
	ActionUserRegistered    LogAction = "User Self-Registered"
	ActionAccountVerified   LogAction = "User Verified Account"
	ActionPasswordResetReq  LogAction = "User Requested Password Reset"
	ActionPasswordResetDone LogAction = "User Successfully Reset Password"
	ActionTimelineEventAdded LogAction = "Added Timeline Event"
	ActionEvidenceAdded     LogAction = "Added Evidence to Case"
	ActionHuntCreated       LogAction = "Threat Hunt Created"
	ActionHuntUpdated       LogAction = "Threat Hunt Updated"
	ActionHuntDeleted       LogAction = "Threat Hunt Deleted"
	ActionHuntEscalated     LogAction = "Threat Hunt Escalated to Investigation"
	ActionPentestEscalated  LogAction = "Penetration Test Escalated to Investigation"
)

// String returns the string representation of the action
func (a LogAction) String() string {
	return string(a)
}
