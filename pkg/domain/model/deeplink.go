package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Deeplink is a parsed ONDC deeplink of the form
// scheme://resolver-authority/uuid
type Deeplink struct {
	Raw       string
	Authority string // resolver authority used for host mapping lookup
	UUID      string // usecase identifier on the resolver
}

// ParseDeeplink splits a raw deeplink into resolver authority and usecase
// UUID
func ParseDeeplink(raw string) (*Deeplink, error) {
	_, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, goerr.New("invalid deeplink format", goerr.V("deeplink", raw))
	}

	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, goerr.New("invalid deeplink format", goerr.V("deeplink", raw))
	}

	return &Deeplink{
		Raw:       raw,
		Authority: parts[0],
		UUID:      parts[1],
	}, nil
}
