package types

// CaseStatus represents the status of an investigation case
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "Open"
	CaseStatusInProgress CaseStatus = "In Progress"
	CaseStatusClosed     CaseStatus = "Closed"
)

// String returns the string representation of the status
func (s CaseStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusInProgress, CaseStatusClosed:
		return true
	default:
		return false
	}
}

// ThreatKind is the discriminant tag of the Threat union
type ThreatKind string

const (
	ThreatKindAlert    ThreatKind = "alert"
	ThreatKindBehavior ThreatKind = "behavior"
	ThreatKindHunt     ThreatKind = "hunt"
	ThreatKindPentest  ThreatKind = "pentest"
)

// String returns the string representation of the threat kind
func (k ThreatKind) String() string {
	return string(k)
}

// IsValid checks if the threat kind is valid
func (k ThreatKind) IsValid() bool {
	switch k {
	case ThreatKindAlert, ThreatKindBehavior, ThreatKindHunt, ThreatKindPentest:
		return true
	default:
		return false
	}
}

// TimelineEventType represents the subtype of a timeline event
type TimelineEventType string

const (
	TimelineEventAlert    TimelineEventType = "alert"
	TimelineEventLog      TimelineEventType = "log"
	TimelineEventNote     TimelineEventType = "note"
	TimelineEventEvidence TimelineEventType = "evidence"
	TimelineEventBehavior TimelineEventType = "behavior"
	TimelineEventHunt     TimelineEventType = "hunt"
	TimelineEventPentest  TimelineEventType = "pentest"
)

// String returns the string representation of the event type
func (t TimelineEventType) String() string {
	return string(t)
}

// IsValid checks if the event type is valid
func (t TimelineEventType) IsValid() bool {
	switch t {
	case TimelineEventAlert, TimelineEventLog, TimelineEventNote,
		TimelineEventEvidence, TimelineEventBehavior, TimelineEventHunt,
		TimelineEventPentest:
		return true
	default:
		return false
	}
}

// RiskLevel represents the risk level of a behavioral anomaly
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// String returns the string representation of the risk level
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid checks if the risk level is valid
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// DroneStatus represents the operational state of a security drone
type DroneStatus string

const (
	DronePatrolling DroneStatus = "Patrolling"
	DroneResponding DroneStatus = "Responding"
	DroneCharging   DroneStatus = "Charging"
	DroneOffline    DroneStatus = "Offline"
)

// String returns the string representation of the drone status
func (s DroneStatus) String() string {
	return string(s)
}

// IsValid checks if the drone status is valid
func (s DroneStatus) IsValid() bool {
	switch s {
	case DronePatrolling, DroneResponding, DroneCharging, DroneOffline:
		return true
	default:
		return false
	}
}
