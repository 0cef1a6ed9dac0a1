package security

import (
	"strings"

	"github.com/dmitrymomot/cachekit/pkg/config"
)

// AuthMethod describes how a connection authenticates.
type AuthMethod string

const (
	AuthNone     AuthMethod = "none"
	AuthPassword AuthMethod = "password"
	AuthACL      AuthMethod = "acl"
)

// Level buckets a security score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Finding is one vulnerability or recommendation.
type Finding struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of a connection security assessment.
// A fully secured connection (TLS, certificate verification, ACL auth)
// scores high and carries only optimization-class recommendations.
type ValidationResult struct {
	Score           int       `json:"score"`
	Level           Level     `json:"level"`
	Vulnerabilities []Finding `json:"vulnerabilities,omitempty"`
	Recommendations []Finding `json:"recommendations,omitempty"`
}

// ConnectionInfo describes the observed security properties of one
// remote-tier connection.
type ConnectionInfo struct {
	URL                 string
	AuthMethod          AuthMethod
	TLSActive           bool
	CertificateVerified bool
}

// Status is a point-in-time security posture snapshot.
type Status struct {
	TLSEnabled         bool       `json:"tls_enabled"`
	VerifyCertificates bool       `json:"verify_certificates"`
	AuthMethod         AuthMethod `json:"auth_method"`
	Score              int        `json:"score"`
	Level              Level      `json:"level"`
}

// Manager assesses remote-tier transport security and reports posture.
type Manager struct {
	cfg       config.SecurityConfig
	remoteURL string
}

// NewManager creates a security manager for the given security config.
// A nil config is treated as no security configured.
func NewManager(sec *config.SecurityConfig, remoteURL string) *Manager {
	m := &Manager{remoteURL: remoteURL}
	if sec != nil {
		m.cfg = *sec
	}
	return m
}

// InfoFromConfig derives the connection properties a config would produce.
func InfoFromConfig(cfg config.Config) ConnectionInfo {
	info := ConnectionInfo{URL: cfg.RemoteURL, AuthMethod: AuthNone}
	if cfg.Security != nil {
		switch {
		case cfg.Security.HasACL():
			info.AuthMethod = AuthACL
		case cfg.Security.AuthPassword != "":
			info.AuthMethod = AuthPassword
		}
		info.TLSActive = cfg.Security.TLSEnabled || strings.HasPrefix(cfg.RemoteURL, "rediss://")
		info.CertificateVerified = info.TLSActive && cfg.Security.VerifyCertificates
	} else {
		info.TLSActive = strings.HasPrefix(cfg.RemoteURL, "rediss://")
	}
	return info
}

// ValidateConnectionSecurity scores a connection's security posture.
// Scoring rewards TLS, strong auth, and certificate validation.
func (m *Manager) ValidateConnectionSecurity(info ConnectionInfo) ValidationResult {
	var result ValidationResult

	if info.TLSActive {
		result.Score += 40
		if info.CertificateVerified {
			result.Score += 20
		} else {
			result.Vulnerabilities = append(result.Vulnerabilities, Finding{
				Code:    "tls_no_verify",
				Message: "TLS is active but server certificates are not verified",
			})
		}
	} else {
		result.Vulnerabilities = append(result.Vulnerabilities, Finding{
			Code:    "no_tls",
			Message: "connection is not encrypted; use a rediss:// URL or enable TLS",
		})
	}

	switch info.AuthMethod {
	case AuthACL:
		result.Score += 40
	case AuthPassword:
		result.Score += 25
		result.Recommendations = append(result.Recommendations, Finding{
			Code:    "prefer_acl",
			Message: "password-only auth works; ACL users allow narrower permissions",
		})
	default:
		result.Vulnerabilities = append(result.Vulnerabilities, Finding{
			Code:    "no_auth",
			Message: "no authentication configured for the remote tier",
		})
	}

	result.Level = levelFor(result.Score)

	if len(result.Vulnerabilities) == 0 {
		result.Recommendations = append(result.Recommendations, Finding{
			Code:    "rotate_credentials",
			Message: "rotate credentials on a regular schedule",
		})
	}

	return result
}

// SecurityStatus reports the posture the configured security settings
// would produce for the manager's remote URL.
func (m *Manager) SecurityStatus() Status {
	info := InfoFromConfig(config.Config{RemoteURL: m.remoteURL, Security: &m.cfg})
	result := m.ValidateConnectionSecurity(info)

	return Status{
		TLSEnabled:         info.TLSActive,
		VerifyCertificates: info.CertificateVerified,
		AuthMethod:         info.AuthMethod,
		Score:              result.Score,
		Level:              result.Level,
	}
}

func levelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelHigh
	case score >= 50:
		return LevelMedium
	default:
		return LevelLow
	}
}
