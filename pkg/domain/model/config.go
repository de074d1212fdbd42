package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// AdminBootstrap describes the initial administrator account seeded at
// startup when no user with the given email exists yet
type AdminBootstrap struct {
	Email         string `yaml:"email"`
	PersonalEmail string `yaml:"personal_email"`
	Password      string `yaml:"password"`
}

// Validate validates the admin bootstrap settings
func (a *AdminBootstrap) Validate() error {
	if a.Email == "" {
		return goerr.New("admin email is required")
	}
	if a.Password == "" {
		return goerr.New("admin password is required")
	}
	return nil
}

// BootstrapConfig is the optional YAML configuration loaded at startup: the
// initial admin account and the catalog of SOP topics offered by the console
type BootstrapConfig struct {
	Admin     *AdminBootstrap `yaml:"admin,omitempty"`
	SOPTopics []string        `yaml:"sop_topics,omitempty"`
}

// Validate validates the bootstrap configuration
func (c *BootstrapConfig) Validate() error {
	if c.Admin != nil {
		if err := c.Admin.Validate(); err != nil {
			return goerr.Wrap(err, "invalid admin bootstrap")
		}
	}

	seen := make(map[string]bool)
	for _, topic := range c.SOPTopics {
		if topic == "" {
			return goerr.New("empty SOP topic")
		}
		if seen[topic] {
			return goerr.New("duplicate SOP topic", goerr.V("topic", topic))
		}
		seen[topic] = true
	}

	return nil
}

// Topics returns the configured SOP topics, falling back to the default
// catalog when none are configured
func (c *BootstrapConfig) Topics() []string {
	if c != nil && len(c.SOPTopics) > 0 {
		return c.SOPTopics
	}
	return DefaultSOPTopics()
}

// AdminUser builds the initial admin User from the bootstrap settings.
// The password hash must be computed by the caller.
func (c *BootstrapConfig) AdminUser(passwordHash string) *User {
	if c == nil || c.Admin == nil {
		return nil
	}
	personal := c.Admin.PersonalEmail
	if personal == "" {
		personal = c.Admin.Email
	}
	return NewUser(c.Admin.Email, personal, passwordHash,
		types.RoleAdmin, types.UserStatusActive, types.DepartmentSOC)
}

// DefaultSOPTopics lists the built-in SOP catalog
func DefaultSOPTopics() []string {
	return []string{
		"Phishing Response",
		"Ransomware Containment",
		"DDoS Mitigation",
		"Credential Compromise",
		"Data Exfiltration",
		"Insider Threat",
	}
}
