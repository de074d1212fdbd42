package llm

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Error tags for categorization
var (
	ErrTagInvalidJSON     = goerr.NewTag("invalid_json")
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

// TranslateErrorPrefix marks a failed query translation. The translator
// reports failure in-band rather than with an error, so callers must check
// the prefix of the returned string.
const TranslateErrorPrefix = "error:"

//go:embed templates/*.md
var templateFS embed.FS

// Service handles all generative-AI operations of the console
type Service struct {
	client gollem.LLMClient
}

// New creates a new LLM service
func New(client gollem.LLMClient) *Service {
	return &Service{client: client}
}

// alertPayload is the wire shape of a generated alert. Enum fields arrive as
// plain strings and are cast to their enumerated types without validation;
// the collaborator is trusted for shape, not semantics.
type alertPayload struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	SrcIP       string `json:"src_ip"`
	DstIP       string `json:"dst_ip"`
	Protocol    string `json:"protocol"`
	AttackType  string `json:"attack_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func (p alertPayload) toAlert() *model.Alert {
	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	return &model.Alert{
		ID:          types.AlertID(p.ID),
		Timestamp:   ts,
		SrcIP:       p.SrcIP,
		DstIP:       p.DstIP,
		Protocol:    types.Protocol(p.Protocol),
		AttackType:  types.AttackType(p.AttackType),
		Severity:    types.Severity(p.Severity),
		Description: p.Description,
	}
}

// GenerateAlerts asks the collaborator for count diverse alerts with
// timestamps spread over the last 7 days
func (s *Service) GenerateAlerts(ctx context.Context, count int) ([]*model.Alert, error) {
	prompt, err := s.render("generate_alerts.md", map[string]any{"Count": count})
	if err != nil {
		return nil, err
	}
	return s.generateAlertList(ctx, prompt)
}

// GenerateNewAlerts asks for count fresh alerts with very recent timestamps,
// suitable for appending to a live dashboard
func (s *Service) GenerateNewAlerts(ctx context.Context, count int) ([]*model.Alert, error) {
	prompt, err := s.render("new_alerts.md", map[string]any{"Count": count})
	if err != nil {
		return nil, err
	}
	return s.generateAlertList(ctx, prompt)
}

// GenerateAlertsFromLog simulates log ingestion: given only a file name and
// type, the collaborator invents the alerts such a file would plausibly yield
func (s *Service) GenerateAlertsFromLog(ctx context.Context, fileName, fileType string) ([]*model.Alert, error) {
	prompt, err := s.render("ingest_log.md", map[string]any{
		"FileName": fileName,
		"FileType": fileType,
	})
	if err != nil {
		return nil, err
	}
	return s.generateAlertList(ctx, prompt)
}

func (s *Service) generateAlertList(ctx context.Context, prompt string) ([]*model.Alert, error) {
	raw, err := s.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payloads []alertPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, goerr.Wrap(err, "failed to parse generated alerts",
			goerr.V("response", raw),
			goerr.T(ErrTagInvalidJSON))
	}

	alerts := make([]*model.Alert, 0, len(payloads))
	for _, p := range payloads {
		alerts = append(alerts, p.toAlert())
	}
	return alerts, nil
}

// GenerateExplanation produces a simplified SHAP/LIME explanation for the
// alert
func (s *Service) GenerateExplanation(ctx context.Context, alert *model.Alert) (*model.XAIExplanation, error) {
	if alert == nil {
		return nil, goerr.New("alert is required")
	}

	prompt, err := s.render("explanation.md", alert)
	if err != nil {
		return nil, err
	}

	raw, err := s.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var explanation model.XAIExplanation
	if err := json.Unmarshal([]byte(raw), &explanation); err != nil {
		return nil, goerr.Wrap(err, "failed to parse explanation",
			goerr.V("response", raw),
			goerr.T(ErrTagInvalidJSON))
	}

	return &explanation, nil
}

// TranslateQuery converts a natural language request into the console's query
// language. Failure is reported in-band: the returned string carries
// TranslateErrorPrefix and the error is nil.
func (s *Service) TranslateQuery(ctx context.Context, nlQuery string) (string, error) {
	prompt, err := s.render("translate_query.md", map[string]any{"Request": nlQuery})
	if err != nil {
		return TranslateErrorPrefix + "Failed to translate query", nil
	}

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		return TranslateErrorPrefix + "Failed to translate query", nil
	}

	return strings.TrimSpace(text), nil
}

// IsTranslateError reports whether a TranslateQuery result is the in-band
// failure marker
func IsTranslateError(result string) bool {
	return strings.HasPrefix(result, TranslateErrorPrefix)
}

// SearchSummary produces a markdown summary of search results from the query
// and a sample of matching alerts
func (s *Service) SearchSummary(ctx context.Context, searchQuery string, sample []*model.Alert) (string, error) {
	sampleJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode result sample")
	}

	prompt, err := s.render("search_summary.md", map[string]any{
		"Query":  searchQuery,
		"Sample": string(sampleJSON),
	})
	if err != nil {
		return "", err
	}

	return s.generateText(ctx, prompt)
}

// InvestigationInsights answers a freeform analyst question in markdown
func (s *Service) InvestigationInsights(ctx context.Context, prompt string) (string, error) {
	wrapped, err := s.render("insights.md", map[string]any{"Prompt": prompt})
	if err != nil {
		return "", err
	}
	return s.generateText(ctx, wrapped)
}

// GenerateReport writes a formal incident report for the investigation
func (s *Service) GenerateReport(ctx context.Context, inv *model.Investigation) (string, error) {
	if inv == nil {
		return "", goerr.New("investigation is required")
	}

	checklistJSON, err := json.MarshalIndent(inv.Checklist, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode checklist")
	}

	emails := make([]string, 0, len(inv.Team))
	for _, m := range inv.Team {
		emails = append(emails, m.Email)
	}

	evidence := make([]string, 0, len(inv.Evidence))
	for _, e := range inv.Evidence {
		evidence = append(evidence, "- "+e.Name+" ("+e.Type+")")
	}

	endTime := "N/A"
	if inv.EndTime != nil {
		endTime = inv.EndTime.Format(time.RFC3339)
	}

	prompt, err := s.render("report.md", map[string]any{
		"CaseID":        inv.ID.String(),
		"Status":        inv.Status.String(),
		"Threat":        describeThreat(inv.PrimaryThreat),
		"Team":          strings.Join(emails, ", "),
		"StartTime":     inv.StartTime.Format(time.RFC3339),
		"EndTime":       endTime,
		"Notes":         inv.Notes,
		"Evidence":      strings.Join(evidence, "\n"),
		"TimelineCount": len(inv.Timeline),
		"Checklist":     string(checklistJSON),
	})
	if err != nil {
		return "", err
	}

	return s.generateText(ctx, prompt)
}

// describeThreat renders a one-line description of the primary threat for
// report prompts
func describeThreat(envelope model.ThreatEnvelope) string {
	threat, err := envelope.Decode()
	if err != nil {
		return "Unknown Threat"
	}

	switch t := threat.(type) {
	case *model.Alert:
		return t.AttackType.String() + " from " + t.SrcIP + " (Severity: " + t.Severity.String() + ")"
	case *model.BehavioralAnomaly:
		return "Behavioral Anomaly for " + t.UserEmail + " (Risk: " + t.RiskLevel.String() + ")"
	case *model.ThreatHuntResult:
		return `Threat Hunt Result: "` + t.Name + `"`
	case *model.PenetrationTestResult:
		return "Penetration Test of " + t.TargetDomain
	default:
		return "Unknown Threat"
	}
}

// GenerateBehavioralData synthesizes count UEBA records
func (s *Service) GenerateBehavioralData(ctx context.Context, count int) ([]*model.BehavioralAnomaly, error) {
	prompt, err := s.render("behavioral.md", map[string]any{"Count": count})
	if err != nil {
		return nil, err
	}

	raw, err := s.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var records []*model.BehavioralAnomaly
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, goerr.Wrap(err, "failed to parse behavioral data",
			goerr.V("response", raw),
			goerr.T(ErrTagInvalidJSON))
	}

	return records, nil
}

// GenerateDroneData synthesizes count security drone fleet records
func (s *Service) GenerateDroneData(ctx context.Context, count int) ([]*model.Drone, error) {
	prompt, err := s.render("drones.md", map[string]any{"Count": count})
	if err != nil {
		return nil, err
	}

	raw, err := s.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drones []*model.Drone
	if err := json.Unmarshal([]byte(raw), &drones); err != nil {
		return nil, goerr.Wrap(err, "failed to parse drone data",
			goerr.V("response", raw),
			goerr.T(ErrTagInvalidJSON))
	}

	return drones, nil
}

// GenerateSOP writes a standard operating procedure document for the topic
func (s *Service) GenerateSOP(ctx context.Context, topic string) (string, error) {
	prompt, err := s.render("sop.md", map[string]any{"Topic": topic})
	if err != nil {
		return "", err
	}
	return s.generateText(ctx, prompt)
}

// generateJSON runs a JSON-mode session and returns the raw response text
func (s *Service) generateJSON(ctx context.Context, prompt string) (string, error) {
	session, err := s.client.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate LLM response")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM", goerr.T(ErrTagEmptyResponse))
	}

	return strings.TrimSpace(response.Texts[0]), nil
}

// generateText runs a plain-text session and returns the response text
func (s *Service) generateText(ctx context.Context, prompt string) (string, error) {
	session, err := s.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate LLM response")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM", goerr.T(ErrTagEmptyResponse))
	}

	return strings.TrimSpace(response.Texts[0]), nil
}

// render loads and executes an embedded prompt template
func (s *Service) render(name string, data any) (string, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read prompt template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse prompt template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}

	return buf.String(), nil
}
