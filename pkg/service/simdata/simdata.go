// Package simdata synthesizes realistic-looking security records without the
// AI collaborator. It backs the initial event-lake seeding and the offline
// path when no LLM is configured.
package simdata

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Generator produces simulated alerts, behavioral anomalies and drone fleet
// records
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a Generator with a random seed
func New() *Generator {
	return &Generator{faker: gofakeit.New(0)}
}

// NewSeeded creates a Generator with a fixed seed for reproducible output
func NewSeeded(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(int64(seed))}
}

var attackDescriptions = map[types.AttackType][]string{
	types.AttackDoS: {
		"SYN flood exhausting connection table on edge firewall",
		"Sustained volumetric traffic from a single source host",
	},
	types.AttackDDoS: {
		"Distributed amplification traffic targeting public endpoint",
		"Coordinated request flood from multiple geographies",
	},
	types.AttackPortScan: {
		"Sequential TCP connection attempts across privileged ports",
		"Slow horizontal scan against internal subnet",
	},
	types.AttackBot: {
		"Periodic beaconing to known command and control domain",
		"Automated credential stuffing pattern detected",
	},
	types.AttackWebAttack: {
		"SQL injection attempt against login form parameter",
		"Path traversal probing on public web server",
	},
	types.AttackInfiltration: {
		"Lateral movement attempt using harvested credentials",
		"Unusual SMB session established from workstation segment",
	},
	types.AttackBenign: {
		"Routine scheduled backup transfer between datacenters",
		"Normal HTTPS browsing session",
	},
	types.AttackBruteForce: {
		"Repeated SSH authentication failures from external host",
		"Dictionary attack against VPN gateway accounts",
	},
}

// GenerateAlerts synthesizes count alerts with timestamps spread over the
// last 7 days
func (g *Generator) GenerateAlerts(ctx context.Context, count int) ([]*model.Alert, error) {
	alerts := make([]*model.Alert, 0, count)
	attackTypes := types.AttackTypes()
	severities := types.Severities()
	protocols := types.Protocols()

	now := time.Now()
	for i := 0; i < count; i++ {
		attack := attackTypes[g.faker.Number(0, len(attackTypes)-1)]
		descriptions := attackDescriptions[attack]

		alerts = append(alerts, &model.Alert{
			ID:          types.NewAlertID(),
			Timestamp:   now.Add(-time.Duration(g.faker.Number(0, int(7*24*time.Hour/time.Second))) * time.Second),
			SrcIP:       g.faker.IPv4Address(),
			DstIP:       g.faker.IPv4Address(),
			Protocol:    protocols[g.faker.Number(0, len(protocols)-1)],
			AttackType:  attack,
			Severity:    severities[g.faker.Number(0, len(severities)-1)],
			Description: descriptions[g.faker.Number(0, len(descriptions)-1)],
		})
	}

	return alerts, nil
}

var anomalyPool = []string{
	"Off-hours VPN access",
	"Large data upload to personal cloud",
	"Multiple failed logins",
	"Access to unusual internal resources",
	"New device enrollment from foreign network",
	"Disabled endpoint protection agent",
}

// GenerateBehavioralData synthesizes count user behavior analytics records
func (g *Generator) GenerateBehavioralData(ctx context.Context, count int) ([]*model.BehavioralAnomaly, error) {
	records := make([]*model.BehavioralAnomaly, 0, count)

	for i := 0; i < count; i++ {
		baseline := g.faker.Number(60, 95)
		deviation := g.faker.Number(-10, 45)
		current := baseline - deviation
		if current < 0 {
			current = 0
		}

		numAnomalies := g.faker.Number(1, 3)
		anomalies := make([]string, 0, numAnomalies)
		for j := 0; j < numAnomalies; j++ {
			anomalies = append(anomalies, anomalyPool[g.faker.Number(0, len(anomalyPool)-1)])
		}

		records = append(records, &model.BehavioralAnomaly{
			ID:            fmt.Sprintf("ueba-%d-%d", time.Now().UnixMilli(), i),
			UserEmail:     g.faker.Email(),
			BaselineScore: baseline,
			CurrentScore:  current,
			Anomalies:     anomalies,
			RiskLevel:     riskLevelFor(deviation, numAnomalies),
		})
	}

	return records, nil
}

func riskLevelFor(deviation, anomalies int) types.RiskLevel {
	switch {
	case deviation > 35 || anomalies >= 3:
		return types.RiskCritical
	case deviation > 25:
		return types.RiskHigh
	case deviation > 10:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

var droneLocations = []string{
	"Perimeter North", "Perimeter South", "R&D Wing", "Rooftop Sector 3",
	"Loading Dock", "Server Farm A", "Main Lobby", "Parking Structure",
}

// GenerateDroneData synthesizes count security drone fleet records. Charging
// drones report low battery.
func (g *Generator) GenerateDroneData(ctx context.Context, count int) ([]*model.Drone, error) {
	statuses := []types.DroneStatus{
		types.DronePatrolling, types.DroneResponding, types.DroneCharging, types.DroneOffline,
	}

	drones := make([]*model.Drone, 0, count)
	for i := 0; i < count; i++ {
		status := statuses[g.faker.Number(0, len(statuses)-1)]

		battery := g.faker.Number(30, 100)
		if status == types.DroneCharging {
			battery = g.faker.Number(5, 30)
		}

		drones = append(drones, &model.Drone{
			ID:       fmt.Sprintf("ADU-%d%c", g.faker.Number(1, 9), 'A'+rune(g.faker.Number(0, 25))),
			Status:   status,
			Location: droneLocations[g.faker.Number(0, len(droneLocations)-1)],
			Battery:  battery,
		})
	}

	return drones, nil
}
