// Package security assesses the transport security posture of remote cache
// connections: TLS, certificate verification, and authentication strength.
//
// The Manager scores a connection from 0 to 100, buckets it into a level
// (high, medium, low), and lists vulnerabilities and recommendations. A
// fully secured connection (TLS with verified certificates and ACL auth)
// yields a high score with only optimization-class recommendations, never
// critical findings.
package security
