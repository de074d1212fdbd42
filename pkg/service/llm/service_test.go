package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/service/llm"
)

func mockClientReturning(texts []string, err error) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					if err != nil {
						return nil, err
					}
					return &gollem.Response{Texts: texts}, nil
				},
			}, nil
		},
	}
}

func TestGenerateAlerts_Success(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{`[
		{
			"id": "alert-test-1",
			"timestamp": "2024-06-01T12:00:00Z",
			"src_ip": "203.0.113.50",
			"dst_ip": "10.0.0.5",
			"protocol": "TCP",
			"attack_type": "Brute Force",
			"severity": "High",
			"description": "Repeated SSH authentication failures"
		},
		{
			"id": "alert-test-2",
			"timestamp": "2024-06-02T08:30:00Z",
			"src_ip": "198.51.100.7",
			"dst_ip": "10.0.0.9",
			"protocol": "UDP",
			"attack_type": "DDoS",
			"severity": "Critical",
			"description": "Amplification traffic targeting DNS resolver"
		}
	]`}, nil)

	service := llm.New(mockClient)
	alerts, err := service.GenerateAlerts(ctx, 2)

	gt.NoError(t, err)
	gt.Equal(t, 2, len(alerts))
	gt.Equal(t, types.AlertID("alert-test-1"), alerts[0].ID)
	gt.Equal(t, types.AttackBruteForce, alerts[0].AttackType)
	gt.Equal(t, types.SeverityHigh, alerts[0].Severity)
	gt.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), alerts[0].Timestamp)
	gt.Equal(t, types.SeverityCritical, alerts[1].Severity)
}

func TestGenerateAlerts_BadTimestampFallsBack(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{`[
		{
			"id": "alert-test-1",
			"timestamp": "yesterday afternoon",
			"src_ip": "203.0.113.50",
			"dst_ip": "10.0.0.5",
			"protocol": "TCP",
			"attack_type": "DoS",
			"severity": "Low",
			"description": "test"
		}
	]`}, nil)

	before := time.Now()
	service := llm.New(mockClient)
	alerts, err := service.GenerateAlerts(ctx, 1)

	gt.NoError(t, err)
	gt.Equal(t, 1, len(alerts))
	gt.B(t, !alerts[0].Timestamp.Before(before)).True()
}

func TestGenerateAlerts_InvalidJSON(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{"this is not json"}, nil)

	service := llm.New(mockClient)
	_, err := service.GenerateAlerts(ctx, 5)

	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, llm.ErrTagInvalidJSON)).True()
}

func TestGenerateAlerts_EmptyResponse(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{}, nil)

	service := llm.New(mockClient)
	_, err := service.GenerateAlerts(ctx, 5)

	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, llm.ErrTagEmptyResponse)).True()
}

func TestGenerateExplanation(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{`{
		"shap_values": [
			{"feature": "flow_duration", "value": 0.82},
			{"feature": "fwd_packet_count", "value": -0.15}
		],
		"lime_summary": "The flow duration strongly indicates a denial of service pattern."
	}`}, nil)

	service := llm.New(mockClient)
	alert := &model.Alert{
		ID:         types.NewAlertID(),
		Timestamp:  time.Now(),
		SrcIP:      "203.0.113.50",
		DstIP:      "10.0.0.5",
		Protocol:   types.ProtocolTCP,
		AttackType: types.AttackDoS,
		Severity:   types.SeverityCritical,
	}

	explanation, err := service.GenerateExplanation(ctx, alert)

	gt.NoError(t, err)
	gt.NotNil(t, explanation)
	gt.Equal(t, 2, len(explanation.ShapValues))
	gt.Equal(t, "flow_duration", explanation.ShapValues[0].Feature)
	gt.S(t, explanation.LimeSummary).Contains("denial of service")
}

func TestTranslateQuery_Success(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{` severity="Critical" AND attack_type="DoS" `}, nil)

	service := llm.New(mockClient)
	result, err := service.TranslateQuery(ctx, "show me critical denial of service alerts")

	gt.NoError(t, err)
	gt.Equal(t, `severity="Critical" AND attack_type="DoS"`, result)
	gt.B(t, llm.IsTranslateError(result)).False()
}

func TestTranslateQuery_FailureIsInBand(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning(nil, goerr.New("model unavailable"))

	service := llm.New(mockClient)
	result, err := service.TranslateQuery(ctx, "anything")

	// The translator never surfaces an error; failure rides in the result
	gt.NoError(t, err)
	gt.B(t, llm.IsTranslateError(result)).True()
	gt.Equal(t, "error:Failed to translate query", result)
}

func TestGenerateReport_IncludesCaseContext(t *testing.T) {
	ctx := context.Background()

	var captured string
	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					for _, in := range input {
						if text, ok := in.(gollem.Text); ok {
							captured = string(text)
						}
					}
					return &gollem.Response{Texts: []string{"# Incident Report"}}, nil
				},
			}, nil
		},
	}

	alert := &model.Alert{
		ID:         types.AlertID("alert-report"),
		Timestamp:  time.Now(),
		SrcIP:      "203.0.113.50",
		DstIP:      "10.0.0.5",
		Protocol:   types.ProtocolTCP,
		AttackType: types.AttackInfiltration,
		Severity:   types.SeverityCritical,
	}
	envelope, err := model.EncodeThreat(alert)
	gt.NoError(t, err)

	inv := &model.Investigation{
		ID:            types.CaseID("case-1717243200000"),
		PrimaryThreat: envelope,
		Team:          []model.Member{{ID: types.UserID("user-1"), Email: "analyst@warden.example"}},
		Status:        types.CaseStatusOpen,
		StartTime:     time.Now(),
		Notes:         "lateral movement confirmed",
	}

	service := llm.New(mockClient)
	report, err := service.GenerateReport(ctx, inv)

	gt.NoError(t, err)
	gt.Equal(t, "# Incident Report", report)
	gt.S(t, captured).Contains("case-1717243200000")
	gt.S(t, captured).Contains("Infiltration from 203.0.113.50")
	gt.S(t, captured).Contains("analyst@warden.example")
	gt.S(t, captured).Contains("lateral movement confirmed")
}

func TestGenerateBehavioralData(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{`[
		{
			"id": "ueba-1",
			"userEmail": "j.doe@warden.example",
			"baselineScore": 85,
			"currentScore": 40,
			"anomalies": ["Off-hours VPN access", "Large data upload to personal cloud"],
			"riskLevel": "Critical"
		}
	]`}, nil)

	service := llm.New(mockClient)
	records, err := service.GenerateBehavioralData(ctx, 1)

	gt.NoError(t, err)
	gt.Equal(t, 1, len(records))
	gt.Equal(t, "j.doe@warden.example", records[0].UserEmail)
	gt.Equal(t, types.RiskCritical, records[0].RiskLevel)
	gt.Equal(t, 2, len(records[0].Anomalies))
}

func TestGenerateSOP(t *testing.T) {
	ctx := context.Background()

	mockClient := mockClientReturning([]string{"# Phishing Response\n\n## Purpose"}, nil)

	service := llm.New(mockClient)
	doc, err := service.GenerateSOP(ctx, "Phishing Response")

	gt.NoError(t, err)
	gt.S(t, doc).Contains("Phishing Response")
}
