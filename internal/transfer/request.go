package transfer

import (
	"net/url"
	"strings"

	"github.com/ligustah/modelpull/internal/catalog"
)

// DefaultSourceTemplate is the CivitAI download URL. {id} and {token} are
// replaced per asset.
const DefaultSourceTemplate = "https://civitai.com/api/download/models/{id}?token={token}"

const redacted = "REDACTED"

// Request is the initiation message sent once per connection.
type Request struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	Name      string `json:"name"`
}

// NewRequest builds the request for a. Placeholder values are query-escaped.
func NewRequest(template, token, sessionID string, a catalog.Asset) Request {
	if template == "" {
		template = DefaultSourceTemplate
	}
	return Request{
		SessionID: sessionID,
		URL:       expand(template, a.ID, token),
		Type:      a.Category.WireType(),
		Name:      a.Name,
	}
}

// SourceURL returns the request URL with the token masked, for logging.
func SourceURL(template string, a catalog.Asset) string {
	if template == "" {
		template = DefaultSourceTemplate
	}
	return expand(template, a.ID, redacted)
}

func expand(template, id, token string) string {
	r := strings.NewReplacer(
		"{id}", url.PathEscape(id),
		"{token}", url.QueryEscape(token),
	)
	return r.Replace(template)
}
