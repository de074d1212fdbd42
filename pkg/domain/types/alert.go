package types

// Severity represents the severity of an alert, ordered Critical > High >
// Medium > Low
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Level returns a numeric rank for ordering, higher is more severe
func (s Severity) Level() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AttackType represents the attack classification of an alert
type AttackType string

const (
	AttackDoS          AttackType = "DoS"
	AttackDDoS         AttackType = "DDoS"
	AttackPortScan     AttackType = "Port Scan"
	AttackBot          AttackType = "Bot"
	AttackWebAttack    AttackType = "Web Attack"
	AttackInfiltration AttackType = "Infiltration"
	AttackBenign       AttackType = "Benign"
	AttackBruteForce   AttackType = "Brute Force"
)

// String returns the string representation of the attack type
func (a AttackType) String() string {
	return string(a)
}

// IsValid checks if the attack type is valid
func (a AttackType) IsValid() bool {
	switch a {
	case AttackDoS, AttackDDoS, AttackPortScan, AttackBot,
		AttackWebAttack, AttackInfiltration, AttackBenign, AttackBruteForce:
		return true
	default:
		return false
	}
}

// AttackTypes lists all valid attack types
func AttackTypes() []AttackType {
	return []AttackType{
		AttackDoS, AttackDDoS, AttackPortScan, AttackBot,
		AttackWebAttack, AttackInfiltration, AttackBenign, AttackBruteForce,
	}
}

// Severities lists all valid severities, most severe first
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Protocol represents the network protocol of an alert
type Protocol string

const (
	ProtocolTCP  Protocol = "TCP"
	ProtocolUDP  Protocol = "UDP"
	ProtocolICMP Protocol = "ICMP"
)

// String returns the string representation of the protocol
func (p Protocol) String() string {
	return string(p)
}

// IsValid checks if the protocol is valid
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolTCP, ProtocolUDP, ProtocolICMP:
		return true
	default:
		return false
	}
}

// Protocols lists all valid protocols
func Protocols() []Protocol {
	return []Protocol{ProtocolTCP, ProtocolUDP, ProtocolICMP}
}
