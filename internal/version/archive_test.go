package version

import (
	"errors"
	"testing"
)

func TestFromArchiveURL(t *testing.T) {
	tests := []struct {
		url         string
		wantVersion string
		wantCommit  string
	}{
		{"https://dl.bintray.com/markeissler/homebrew/hyperkit/hyperkit-20170515-fa78d94.tar.gz", "20170515", "fa78d94"},
		{"https://example.com/hyperkit-20170425-A9C368B.tar.gz", "20170425", "A9C368B"},
		{"hyperkit-20160101-0123456789abcdef.tar.gz", "20160101", "0123456789abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p, err := FromArchiveURL(tt.url)
			if err != nil {
				t.Fatalf("FromArchiveURL: %v", err)
			}
			if p.Version != tt.wantVersion || p.Commit != tt.wantCommit {
				t.Errorf("got (%q, %q), want (%q, %q)", p.Version, p.Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFromArchiveURLMalformed(t *testing.T) {
	urls := []string{
		"https://example.com/hyperkit-20170515.tar.gz",
		"https://example.com/hyperkit-20170515-fa78d94.zip",
		"https://example.com/hyperkit-2017051-fa78d94.tar.gz",
		"https://example.com/hyperkit-20170515-xyz.tar.gz",
		"https://example.com/hyperkit-20170515-fa78d94.tar.gz?download=1",
		"https://example.com/hyperkit-20170515-fa78d94tar.gz",
		"",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			_, err := FromArchiveURL(url)
			if !errors.Is(err, ErrMalformedURL) {
				t.Fatalf("expected ErrMalformedURL, got %v", err)
			}
			var re *ResolveError
			if !errors.As(err, &re) || re.Strategy != "archive" {
				t.Errorf("expected archive ResolveError, got %#v", err)
			}
		})
	}
}

func TestArchiveParserCustomName(t *testing.T) {
	p, err := ArchiveParser{Name: "vpnkit"}.Parse("https://example.com/vpnkit-20180101-abc1234.tar.gz")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Version != "20180101" || p.Commit != "abc1234" {
		t.Errorf("got %+v", p)
	}

	if _, err := (ArchiveParser{Name: "vpnkit"}).Parse("https://example.com/hyperkit-20180101-abc1234.tar.gz"); !errors.Is(err, ErrMalformedURL) {
		t.Errorf("expected ErrMalformedURL for other project name, got %v", err)
	}
}
