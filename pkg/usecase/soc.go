package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/service/llm"
)

// SOC serves the standard operating procedure catalog and the simulated
// pentest toolkit
type SOC struct {
	llm    *llm.Service
	config *model.BootstrapConfig
}

// NewSOC creates a new SOC use case. llmSvc may be nil; config may be nil to
// use the default topic catalog.
func NewSOC(llmSvc *llm.Service, config *model.BootstrapConfig) *SOC {
	return &SOC{
		llm:    llmSvc,
		config: config,
	}
}

// Topics lists the available SOP topics
func (u *SOC) Topics() []string {
	return u.config.Topics()
}

// Tools lists the simulated pentest tools
func (u *SOC) Tools() []string {
	return llm.SupportedTools()
}

// RunTool simulates a pentest tool run against a target
func (u *SOC) RunTool(ctx context.Context, tool, target string) (string, error) {
	if !llm.IsSupportedTool(tool) {
		return "", goerr.New("unsupported virtual tool", goerr.V("tool", tool))
	}
	if target == "" {
		return "", goerr.New("target is required")
	}

	if u.llm == nil {
		return "", goerr.New("the virtual toolkit requires a configured LLM")
	}

	return u.llm.RunTool(ctx, tool, target)
}

// ParseToolReport extracts high-impact findings from a tool report as alerts
func (u *SOC) ParseToolReport(ctx context.Context, report, tool, target string) ([]*model.Alert, error) {
	if report == "" {
		return nil, goerr.New("report is required")
	}

	if u.llm == nil {
		return nil, goerr.New("the virtual toolkit requires a configured LLM")
	}

	return u.llm.ParseToolReport(ctx, report, tool, target)
}

// GenerateSOP writes the procedure document for a topic. The topic must be in
// the catalog.
func (u *SOC) GenerateSOP(ctx context.Context, topic string) (string, error) {
	found := false
	for _, t := range u.Topics() {
		if t == topic {
			found = true
			break
		}
	}
	if !found {
		return "", goerr.New("unknown SOP topic", goerr.V("topic", topic))
	}

	if u.llm == nil {
		return "", goerr.New("SOP generation requires a configured LLM")
	}

	return u.llm.GenerateSOP(ctx, topic)
}
