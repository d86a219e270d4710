// Package manifest decodes the remote node lists the bootstrap's remote
// mode fetches, and enforces the SSRF allow-list over their contents.
package manifest

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/nodepool/rpc-balancer/internal/apperror"
)

// TrustedHostSuffix is the only host suffix the remote bootstrap mode will
// accept a manifest-supplied URL from (spec.md §4.1).
const TrustedHostSuffix = "rpc.tatum.io"

// Node is one entry of a manifest's {url, type} array.
type Node struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Decode parses a manifest response body into its Node list.
func Decode(body []byte) ([]Node, error) {
	var nodes []Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, apperror.New(apperror.CodeInvalidFormat, apperror.WithCause(err))
	}
	return nodes, nil
}

// IsTrusted reports whether rawURL's host suffix equals TrustedHostSuffix.
// A malformed URL is never trusted.
func IsTrusted(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	return host == TrustedHostSuffix || strings.HasSuffix(host, "."+TrustedHostSuffix)
}
