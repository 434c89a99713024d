package signer

// ACS3 signing constants.

const (
	// SigningAlgorithm is the ACS3 signing algorithm identifier.
	SigningAlgorithm = "ACS3-HMAC-SHA256"

	// EmptyBodySHA256 is the hex encoded SHA256 hash of an empty string,
	// used as the content hash for requests with no body.
	EmptyBodySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// AuthorizationHeader is the HTTP header name for authorization.
	AuthorizationHeader = "Authorization"

	// Header names covered by the signature. The gateway expects them
	// lowercase in the canonical request.
	HeaderHost           = "host"
	HeaderAction         = "x-acs-action"
	HeaderContentSHA256  = "x-acs-content-sha256"
	HeaderDate           = "x-acs-date"
	HeaderSignatureNonce = "x-acs-signature-nonce"
	HeaderVersion        = "x-acs-version"

	// TimestampFormat is the UTC timestamp format for x-acs-date,
	// second precision ISO-8601.
	TimestampFormat = "2006-01-02T15:04:05Z"
)

// signedHeaderNames is the exact set and order of headers covered by the
// signature. The order is fixed by the gateway; it is not derived from the
// caller's header map.
var signedHeaderNames = []string{
	HeaderHost,
	HeaderAction,
	HeaderContentSHA256,
	HeaderDate,
	HeaderSignatureNonce,
	HeaderVersion,
}

// SignedHeaders is the semicolon-joined signed header list as it appears in
// both the canonical request and the Authorization header.
const SignedHeaders = "host;x-acs-action;x-acs-content-sha256;x-acs-date;x-acs-signature-nonce;x-acs-version"
