package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/leadlift/webtracker/api/internal/entity"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+\-']+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Domains that show up in page markup but never belong to the business itself.
var ignoredEmailDomains = []string{
	"example.com",
	"test.com",
	"placeholder",
	"@sentry.",
	"@google.",
	"@facebook.",
}

var preferredEmailPrefixes = []string{"info@", "contact@", "admin@", "hello@", "support@"}

const (
	emailFinderTimeout  = 5 * time.Second
	emailFinderReadCap  = 512 * 1024
	emailFinderMaxHosts = 2
)

// EmailSearchResult reports a discovered address and how much to trust it.
type EmailSearchResult struct {
	Email      string
	Source     string
	Confidence float64
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// HTTPClient abstracts HTTP requests for discovery purposes.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}

// EmailFinder discovers contact addresses for prospects that carry a website
// but no stored email. Discovered addresses are transient; the store is never
// mutated by discovery.
type EmailFinder struct {
	httpClient  HTTPClient
	dnsResolver DNSResolver
}

// EmailFinderOption configures optional dependencies.
type EmailFinderOption func(*EmailFinder)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) EmailFinderOption {
	return func(f *EmailFinder) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) EmailFinderOption {
	return func(f *EmailFinder) {
		if resolver != nil {
			f.dnsResolver = resolver
		}
	}
}

// NewEmailFinder builds a finder with sensible defaults.
func NewEmailFinder(opts ...EmailFinderOption) *EmailFinder {
	f := &EmailFinder{
		httpClient:  &http.Client{Timeout: emailFinderTimeout},
		dnsResolver: systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindBusinessEmail tries discovery methods in decreasing confidence order.
// An empty Email means nothing usable was found; it is not an error.
func (f *EmailFinder) FindBusinessEmail(ctx context.Context, business *entity.Business) EmailSearchResult {
	if business == nil || business.Website == nil {
		return EmailSearchResult{Source: "no_website"}
	}

	if result := f.searchWebsite(ctx, *business.Website); result.Email != "" {
		return result
	}
	if result := f.guessPattern(ctx, *business.Website); result.Email != "" {
		return result
	}
	return EmailSearchResult{Source: "none"}
}

// searchWebsite fetches the site and extracts addresses from its markup.
func (f *EmailFinder) searchWebsite(ctx context.Context, website string) EmailSearchResult {
	urls := candidateURLs(website)
	if len(urls) > emailFinderMaxHosts {
		urls = urls[:emailFinderMaxHosts]
	}

	for _, rawURL := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BusinessFinder/1.0)")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			continue
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, emailFinderReadCap))
		resp.Body.Close()
		if readErr != nil || resp.StatusCode >= 400 {
			continue
		}

		emails := ExtractEmails(string(body))
		if len(emails) == 0 {
			continue
		}
		return EmailSearchResult{Email: pickPreferredEmail(emails), Source: "website", Confidence: 0.9}
	}
	return EmailSearchResult{Source: "website"}
}

// guessPattern falls back to info@<host> when the domain accepts mail.
func (f *EmailFinder) guessPattern(ctx context.Context, website string) EmailSearchResult {
	host := WebsiteHost(website)
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return EmailSearchResult{Source: "pattern_guess"}
	}

	if _, err := f.dnsResolver.LookupMX(ctx, host); err != nil {
		return EmailSearchResult{Source: "pattern_guess"}
	}
	return EmailSearchResult{Email: "info@" + host, Source: "pattern_guess", Confidence: 0.3}
}

// ExtractEmails pulls plausible contact addresses out of free text, dropping
// well-known false positives.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var emails []string
	for _, match := range matches {
		email := strings.ToLower(match)
		if _, ok := seen[email]; ok {
			continue
		}
		if isIgnoredEmail(email) {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}

func isIgnoredEmail(email string) bool {
	for _, fragment := range ignoredEmailDomains {
		if strings.Contains(email, fragment) {
			return true
		}
	}
	return false
}

func pickPreferredEmail(emails []string) string {
	for _, email := range emails {
		for _, prefix := range preferredEmailPrefixes {
			if strings.HasPrefix(email, prefix) {
				return email
			}
		}
	}
	return emails[0]
}

func candidateURLs(website string) []string {
	if strings.Contains(website, "://") {
		return []string{website}
	}
	return []string{"https://" + website, "http://" + website}
}
