package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
)

// virtualTool holds the persona a simulated pentest tool answers with and the
// command line the collaborator is asked to execute against the target
type virtualTool struct {
	instruction string
	command     string
}

var virtualTools = map[string]virtualTool{
	"Nmap": {
		instruction: "You are the Nmap (Network Mapper) command-line tool. Generate a realistic scan report for the given target. The output should be formatted exactly like the real Nmap tool's text output, including the header, discovered ports with state, service, and version, and the final summary. Use common ports and services for the simulation.",
		command:     "nmap -sV -A %s",
	},
	"Nessus": {
		instruction: "You are the Nessus vulnerability scanner. Generate a summary report for a scan against the given target. The output must be in well-structured Markdown. For each finding, include a Plugin ID, a CVE if applicable, a severity (Critical, High, Medium, Low, Info), a synopsis, a detailed description of the vulnerability, and a solution.",
		command:     "Generate a Nessus vulnerability scan report for %s.",
	},
	"Wireshark": {
		instruction: "You are a network analyst summarizing a Wireshark capture. Generate a summary of a hypothetical packet capture related to the target. Describe the most common protocols seen (e.g., TCP, DNS, HTTP/S), any suspicious conversations between IPs, and notable findings like unencrypted traffic or error packets. The output should be a human-readable summary in Markdown.",
		command:     "Summarize a Wireshark capture file involving traffic to and from %s.",
	},
	"Burp Suite": {
		instruction: "You are the Burp Suite web vulnerability scanner. Generate a summary report of findings for the web application at the given target. The output must be in well-structured Markdown. Detail at least 3-5 common web vulnerabilities (e.g., SQL Injection, Cross-Site Scripting, Insecure Direct Object References) with severity, a description of the issue, and a clear remediation plan.",
		command:     "Generate a Burp Suite vulnerability scan report for the web application at %s.",
	},
	"Metasploit": {
		instruction: "You are the Metasploit Framework console. Simulate the process of finding and checking a relevant exploit for a service running on the target. Your output should mimic the text-based console output of Metasploit, showing commands like 'search', 'use', 'show options', 'set RHOSTS', and 'check' or 'run'. The exploit should be plausible but clearly marked as a simulation.",
		command:     "Simulate a Metasploit session targeting a known vulnerability on %s.",
	},
	"John the Ripper": {
		instruction: "You are the John the Ripper password cracker tool. Simulate the output of running 'john' on a hypothetical password hash file from the target system. Show the loading process, session details, and a list of a few plausibly cracked passwords with their corresponding usernames.",
		command:     "Simulate running John the Ripper on a password file from %s.",
	},
}

// SupportedTools lists the simulated pentest tools in stable order
func SupportedTools() []string {
	tools := make([]string, 0, len(virtualTools))
	for name := range virtualTools {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	return tools
}

// IsSupportedTool reports whether a tool can be simulated
func IsSupportedTool(name string) bool {
	_, ok := virtualTools[name]
	return ok
}

// RunTool simulates running a pentest tool against a target and returns the
// tool's raw report text
func (s *Service) RunTool(ctx context.Context, tool, target string) (string, error) {
	vt, ok := virtualTools[tool]
	if !ok {
		return "", goerr.New("unsupported virtual tool", goerr.V("tool", tool))
	}

	prompt, err := s.render("virtual_tool.md", map[string]any{
		"Instruction": vt.instruction,
		"Command":     fmt.Sprintf(vt.command, target),
	})
	if err != nil {
		return "", err
	}

	return s.generateText(ctx, prompt)
}

// ParseToolReport extracts Critical and High findings from a tool report as
// structured alerts
func (s *Service) ParseToolReport(ctx context.Context, report, tool, target string) ([]*model.Alert, error) {
	prompt, err := s.render("parse_report.md", map[string]any{
		"Tool":   tool,
		"Target": target,
		"Report": report,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payloads []alertPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, goerr.Wrap(err, "failed to parse extracted findings",
			goerr.V("response", raw),
			goerr.T(ErrTagInvalidJSON))
	}

	alerts := make([]*model.Alert, 0, len(payloads))
	for _, p := range payloads {
		alerts = append(alerts, p.toAlert())
	}
	return alerts, nil
}
