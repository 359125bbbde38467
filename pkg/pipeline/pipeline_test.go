package pipeline

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/labindex/pkg/catalog"
	"github.com/matzehuels/labindex/pkg/errors"
	"github.com/matzehuels/labindex/pkg/integrations/pages"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Org: "acme", Token: "t"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}

	if opts.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", opts.Output, DefaultOutput)
	}
	if opts.SiteURL != pages.DefaultSiteURL {
		t.Errorf("SiteURL = %q, want %q", opts.SiteURL, pages.DefaultSiteURL)
	}
	if opts.MetadataFile != pages.DefaultFile {
		t.Errorf("MetadataFile = %q, want %q", opts.MetadataFile, pages.DefaultFile)
	}
	if len(opts.Candidates) != 2 {
		t.Errorf("Candidates = %v, want the two defaults", opts.Candidates)
	}
	if opts.License != catalog.DefaultLicense {
		t.Errorf("License = %q, want %q", opts.License, catalog.DefaultLicense)
	}
	if opts.FallbackPath != DefaultFallbackPath {
		t.Errorf("FallbackPath = %q, want %q", opts.FallbackPath, DefaultFallbackPath)
	}
	if opts.HTTPTimeout != DefaultHTTPTimeout || opts.HTTPClient == nil || opts.Logger == nil {
		t.Error("runtime defaults not applied")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing token", Options{Org: "acme"}},
		{"missing org", Options{Token: "t"}},
		{"invalid org", Options{Token: "t", Org: "acme/evil"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Org: "acme", Token: "t"}
	_ = opts.ValidateAndSetDefaults()
	opts.Output = "custom.json"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Output != "custom.json" {
		t.Errorf("second call changed Output to %q", opts.Output)
	}
}

func TestValidationErrorIsCoded(t *testing.T) {
	err := (&Options{}).ValidateForList()
	var coded *errors.Error
	if !stderrors.As(err, &coded) || coded.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("ValidateForList() = %#v, want coded INVALID_CONFIG", err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil)
	if r.Logger == nil || r.Now == nil {
		t.Error("NewRunner(nil) should set logger and clock")
	}
}
