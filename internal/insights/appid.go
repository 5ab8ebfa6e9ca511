package insights

import "strings"

// ParseAppID extracts the ApplicationId field from an Application Insights
// connection string. It returns "" when the field is absent.
func ParseAppID(connectionString string) string {
	for _, part := range strings.Split(connectionString, ";") {
		if value, ok := strings.CutPrefix(part, "ApplicationId="); ok {
			return value
		}
	}
	return ""
}
