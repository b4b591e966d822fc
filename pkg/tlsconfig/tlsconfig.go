// Package tlsconfig supplies the TLS version profiles and cipher-suite
// sets the Plain transport falls back to when a caller leaves its
// TLSConfig version fields unset.
package tlsconfig

import "crypto/tls"

// VersionProfile is a min/max TLS protocol version pair applied to a
// tls.Config as a unit.
type VersionProfile struct {
	Min uint16
	Max uint16
}

var (
	// ProfileModern negotiates TLS 1.3 only.
	ProfileModern = VersionProfile{Min: tls.VersionTLS13, Max: tls.VersionTLS13}

	// ProfileSecure negotiates TLS 1.2 or 1.3. This is the default
	// profile for HTTPS requests that do not configure versions
	// themselves.
	ProfileSecure = VersionProfile{Min: tls.VersionTLS12, Max: tls.VersionTLS13}

	// ProfileCompatible admits TLS 1.0 through 1.3 for servers stuck on
	// deprecated protocol versions.
	ProfileCompatible = VersionProfile{Min: tls.VersionTLS10, Max: tls.VersionTLS13}
)

// Deprecated reports whether version predates TLS 1.2.
func Deprecated(version uint16) bool {
	return version < tls.VersionTLS12
}

// suitesTLS12 are the ECDHE+AEAD suites preferred when the minimum
// negotiated version is TLS 1.2. TLS 1.3 suites are fixed by the
// protocol and never configured explicitly.
var suitesTLS12 = []uint16{
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}

// suitesCompat extends suitesTLS12 with CBC-mode suites for TLS 1.0/1.1
// peers.
var suitesCompat = append(append([]uint16{}, suitesTLS12...),
	tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA,
	tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA,
)

// ApplyVersionProfile sets config's negotiable version range from profile.
func ApplyVersionProfile(config *tls.Config, profile VersionProfile) {
	config.MinVersion = profile.Min
	config.MaxVersion = profile.Max
}

// ApplyCipherSuites sets config's cipher suites to the recommended set
// for minVersion. At TLS 1.3 the suite list is left nil: the standard
// library ignores CipherSuites for 1.3 and always uses the protocol's
// fixed set.
func ApplyCipherSuites(config *tls.Config, minVersion uint16) {
	switch {
	case minVersion >= tls.VersionTLS13:
		config.CipherSuites = nil
	case minVersion >= tls.VersionTLS12:
		config.CipherSuites = suitesTLS12
	default:
		config.CipherSuites = suitesCompat
	}
}
