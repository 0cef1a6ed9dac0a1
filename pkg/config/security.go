package config

// SecurityConfig encapsulates transport security for the remote tier:
// AUTH / ACL credentials and TLS material. Constructed from config or
// environment and never mutated afterwards.
type SecurityConfig struct {
	// AuthPassword is the legacy requirepass-style password.
	AuthPassword string `env:"CACHE_AUTH_PASSWORD" yaml:"auth_password"`

	// ACLUsername and ACLPassword authenticate against the server's ACL
	// system. Both must be set together.
	ACLUsername string `env:"CACHE_ACL_USERNAME" yaml:"acl_username"`
	ACLPassword string `env:"CACHE_ACL_PASSWORD" yaml:"acl_password"`

	// TLSEnabled switches the connection to TLS. Requires the cert, key,
	// and CA paths below.
	TLSEnabled  bool   `env:"CACHE_TLS_ENABLED" yaml:"tls_enabled"`
	TLSCertPath string `env:"CACHE_TLS_CERT_PATH" yaml:"tls_cert_path"`
	TLSKeyPath  string `env:"CACHE_TLS_KEY_PATH" yaml:"tls_key_path"`
	TLSCAPath   string `env:"CACHE_TLS_CA_PATH" yaml:"tls_ca_path"`

	// VerifyCertificates controls server certificate verification.
	// Disabling it is reported as a vulnerability by the security manager.
	VerifyCertificates bool `env:"CACHE_TLS_VERIFY" envDefault:"true" yaml:"verify_certificates"`
}

// HasAuth reports whether any authentication credentials are configured.
func (s SecurityConfig) HasAuth() bool {
	return s.AuthPassword != "" || (s.ACLUsername != "" && s.ACLPassword != "")
}

// HasACL reports whether ACL-style credentials are configured.
func (s SecurityConfig) HasACL() bool {
	return s.ACLUsername != "" && s.ACLPassword != ""
}
