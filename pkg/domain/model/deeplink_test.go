package model_test

import (
	"testing"

	"github.com/ondc-official/deeplinkd/pkg/domain/model"
)

func TestParseDeeplink(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantAuthority string
		wantUUID      string
		wantErr       bool
	}{
		{
			name:          "Simple deeplink",
			raw:           "beckn://resolver.beckn.org/12345",
			wantAuthority: "resolver.beckn.org",
			wantUUID:      "12345",
		},
		{
			name:          "Subdomain authority",
			raw:           "beckn://sub.resolver.beckn.org/12345-6789-0000",
			wantAuthority: "sub.resolver.beckn.org",
			wantUUID:      "12345-6789-0000",
		},
		{
			name:          "Trailing path segments are ignored",
			raw:           "ondc://resolver.ondc.org/abc/extra",
			wantAuthority: "resolver.ondc.org",
			wantUUID:      "abc",
		},
		{
			name:    "No scheme separator",
			raw:     "resolver.beckn.org/12345",
			wantErr: true,
		},
		{
			name:    "Missing UUID",
			raw:     "beckn://resolver.beckn.org",
			wantErr: true,
		},
		{
			name:    "Empty UUID segment",
			raw:     "beckn://resolver.beckn.org/",
			wantErr: true,
		},
		{
			name:    "Empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := model.ParseDeeplink(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeeplink(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if link.Authority != tt.wantAuthority {
				t.Errorf("Authority = %q, want %q", link.Authority, tt.wantAuthority)
			}
			if link.UUID != tt.wantUUID {
				t.Errorf("UUID = %q, want %q", link.UUID, tt.wantUUID)
			}
		})
	}
}
