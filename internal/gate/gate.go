package gate

import (
	"path"
	"strings"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

// Route targets the classifier redirects to.
const (
	RouteGetStarted = "/get-started"
	RouteListings   = "/listings"
	RouteOwnerHome  = "/dashboard/owner"
)

// Decision is the outcome of classifying one navigation: either let it
// through or send the browser somewhere else.
type Decision struct {
	Allow  bool
	Target string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// RouteTable holds the route sets the classifier evaluates, in priority
// order. Patterns use "*" for a single dynamic path segment.
type RouteTable struct {
	PublicExact    []string
	PublicPrefixes []string
	PublicPatterns []string
	Protected      []string
	OwnerOnly      []string
	RenterOnly     []string
}

// DefaultRouteTable mirrors the application's navigation map.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		PublicExact: []string{
			"/",
			"/get-started",
			"/login",
			"/signup",
			"/about",
			"/contact",
			"/support",
		},
		PublicPrefixes: []string{
			"/listings",
			"/search",
		},
		PublicPatterns: []string{
			"/listings/*",
			"/owners/*/listings",
		},
		Protected: []string{
			"/dashboard",
			"/profile",
			"/bookings",
			"/messages",
		},
		OwnerOnly: []string{
			"/dashboard/owner",
		},
		RenterOnly: []string{
			"/dashboard/renter",
		},
	}
}

// Classify is a total, side-effect-free function of the request path and the
// account-type cookie value. It performs no I/O: it runs on the hot path of
// every navigation.
func (t RouteTable) Classify(rawPath string, accountType enums.AccountType) Decision {
	cleaned := cleanPath(rawPath)

	if t.isPublic(cleaned) {
		return allow()
	}

	// Messaging needs an identity role but carries no role restriction.
	if hasPathPrefix(cleaned, "/messages") {
		if !accountType.IsSet() {
			return redirect(RouteGetStarted)
		}
		return allow()
	}

	if matchesAny(cleaned, t.Protected) && !accountType.IsSet() {
		return redirect(RouteGetStarted)
	}

	if matchesAny(cleaned, t.OwnerOnly) && accountType == enums.AccountTypeRenter {
		return redirect(RouteListings)
	}

	if matchesAny(cleaned, t.RenterOnly) && accountType == enums.AccountTypeOwner {
		return redirect(RouteOwnerHome)
	}

	return allow()
}

func (t RouteTable) isPublic(cleaned string) bool {
	for _, exact := range t.PublicExact {
		if cleaned == exact {
			return true
		}
	}
	if matchesAny(cleaned, t.PublicPrefixes) {
		return true
	}
	for _, pattern := range t.PublicPatterns {
		if matchPattern(pattern, cleaned) {
			return true
		}
	}
	return false
}

// IsNavigational reports whether the path represents a page navigation.
// Assets and API calls bypass the gate entirely.
func IsNavigational(rawPath string) bool {
	cleaned := cleanPath(rawPath)
	for _, prefix := range []string{"/api", "/_next", "/static", "/assets", "/metrics", "/health", "/favicon.ico"} {
		if hasPathPrefix(cleaned, prefix) {
			return false
		}
	}
	// A file extension on the last segment marks an asset request.
	if last := cleaned[strings.LastIndex(cleaned, "/")+1:]; strings.Contains(last, ".") {
		return false
	}
	return true
}

func cleanPath(rawPath string) string {
	trimmed := strings.TrimSpace(rawPath)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	cleaned := path.Clean(trimmed)
	return cleaned
}

func matchesAny(cleaned string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if hasPathPrefix(cleaned, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches on whole segments: "/dashboard" covers
// "/dashboard/owner" but not "/dashboards".
func hasPathPrefix(cleaned, prefix string) bool {
	if cleaned == prefix {
		return true
	}
	return strings.HasPrefix(cleaned, prefix+"/")
}

// matchPattern compares segment-wise, where "*" matches exactly one segment.
func matchPattern(pattern, cleaned string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(cleaned, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if part == "*" {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}
