// Package portal builds Azure Portal deep links for Application Insights
// queries and terminal hyperlinks for printing them.
package portal

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"net/url"
)

// Links carries the resource identifiers needed to deep-link a query into
// the Azure Portal Logs blade.
type Links struct {
	TenantID       string
	SubscriptionID string
	ResourceGroup  string
	ComponentName  string
}

// Configured reports whether every identifier needed for a link is set.
func (l Links) Configured() bool {
	return l.TenantID != "" && l.SubscriptionID != "" && l.ResourceGroup != "" && l.ComponentName != ""
}

// QueryURL returns a portal URL that opens the Logs blade with the query
// pre-loaded over the given timespan. The query travels gzipped, base64
// encoded and percent-escaped inside the URL path.
func (l Links) QueryURL(query, timespan string) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(query)); err != nil {
		return "", fmt.Errorf("compress query: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress query: %w", err)
	}
	encoded := url.QueryEscape(base64.StdEncoding.EncodeToString(buf.Bytes()))

	return fmt.Sprintf(
		"https://portal.azure.com#@%s/blade/Microsoft_Azure_Monitoring_Logs/"+
			"LogsBlade/resourceId/%%2Fsubscriptions%%2F%s%%2FresourceGroups%%2F"+
			"%s%%2Fproviders%%2Fmicrosoft.insights%%2Fcomponents%%2F"+
			"%s/source/LogsBlade.AnalyticsShareLinkToQuery/q/%s/timespan/%s",
		l.TenantID, l.SubscriptionID, l.ResourceGroup, l.ComponentName, encoded, timespan,
	), nil
}

// Hyperlink wraps text in an OSC 8 escape sequence so terminals that support
// it render a clickable link.
func Hyperlink(text, target string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", target, text)
}
