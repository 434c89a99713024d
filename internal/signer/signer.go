package signer

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Credentials holds the Alibaba Cloud access credentials and the Tingwu app
// key. The value is immutable for the process lifetime; construct it once in
// main and pass it to every component that needs it.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
	AppKey          string
}

// CredentialsFromEnv reads credentials from the standard environment
// variables. Missing variables yield empty strings; the gateway rejects
// unsigned requests anyway, so startup does not fail on absent credentials.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AccessKeyID:     os.Getenv("ALIYUN_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("ALIYUN_ACCESS_KEY_SECRET"),
		AppKey:          os.Getenv("TINGWU_APP_KEY"),
	}
}

// IsZero reports whether no credential values are set.
func (c Credentials) IsZero() bool {
	return c.AccessKeyID == "" && c.AccessKeySecret == "" && c.AppKey == ""
}

// Signer signs HTTP requests with the ACS3-HMAC-SHA256 scheme. A Signer is
// safe for concurrent use; it carries no mutable state.
type Signer struct {
	creds Credentials
}

// New creates a Signer for the given credentials.
func New(creds Credentials) *Signer {
	return &Signer{creds: creds}
}

// Sign computes the ACS3 signature for the request and returns the headers
// map augmented with x-acs-content-sha256 and Authorization. The headers map
// must already contain x-acs-action, x-acs-date, x-acs-signature-nonce and
// x-acs-version; host is taken from the URL, never from the caller's headers.
//
// The query string is signed verbatim: it is neither sorted nor re-encoded,
// because the signature is sensitive to byte-for-byte content. Callers must
// supply it already in the exact form the gateway expects.
//
// The map is mutated in place. Do not reuse one headers map across requests
// without refreshing action, date and nonce.
func (s *Signer) Sign(method, rawURL string, headers map[string]string, body []byte) (map[string]string, error) {
	switch method {
	case "GET", "POST":
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("request URL %q has no host", rawURL)
	}

	for _, name := range []string{HeaderAction, HeaderDate, HeaderSignatureNonce, HeaderVersion} {
		if headers[name] == "" {
			return nil, fmt.Errorf("required signing header %q is missing", name)
		}
	}

	bodyHash := hashSHA256(body)
	headers[HeaderContentSHA256] = bodyHash

	canonicalRequest := buildCanonicalRequest(method, u, headers, bodyHash)

	hashedCanonicalRequest := hashSHA256([]byte(canonicalRequest))
	stringToSign := SigningAlgorithm + "\n" + hashedCanonicalRequest

	mac := hmac.New(sha256.New, []byte(s.creds.AccessKeySecret))
	mac.Write([]byte(stringToSign))
	signature := hex.EncodeToString(mac.Sum(nil))

	headers[AuthorizationHeader] = fmt.Sprintf("%s Credential=%s,SignedHeaders=%s,Signature=%s",
		SigningAlgorithm, s.creds.AccessKeyID, SignedHeaders, signature)

	return headers, nil
}

// buildCanonicalRequest assembles the signature input string:
// METHOD\nPATH\nQUERY\nCANONICAL_HEADERS\n\nSIGNED_HEADERS\nBODY_HASH.
// PATH defaults to "/" and QUERY is used raw.
func buildCanonicalRequest(method string, u *url.URL, headers map[string]string, bodyHash string) string {
	canonicalURI := u.EscapedPath()
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	var canonicalHeaders strings.Builder
	for _, name := range signedHeaderNames {
		canonicalHeaders.WriteString(name)
		canonicalHeaders.WriteByte(':')
		if name == HeaderHost {
			canonicalHeaders.WriteString(u.Host)
		} else {
			canonicalHeaders.WriteString(headers[name])
		}
		canonicalHeaders.WriteByte('\n')
	}

	return strings.Join([]string{
		method,
		canonicalURI,
		u.RawQuery,
		canonicalHeaders.String(),
		SignedHeaders,
		bodyHash,
	}, "\n")
}

func hashSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Timestamp formats t as the UTC second-precision timestamp the gateway
// expects in x-acs-date.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Nonce derives a per-request nonce from t. The gateway only requires
// uniqueness per request, not unpredictability; this matches the service's
// coarse anti-replay window.
func Nonce(t time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d", t.UnixNano())))
	return hex.EncodeToString(sum[:])
}
