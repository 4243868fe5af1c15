package gate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

func genAccountType() gopter.Gen {
	return gen.OneConstOf(enums.AccountTypeUnset, enums.AccountTypeRenter, enums.AccountTypeOwner)
}

func genPath() gopter.Gen {
	return gen.SliceOfN(3, gen.OneConstOf(
		"dashboard", "owner", "renter", "listings", "messages", "profile",
		"bookings", "get-started", "search", "x1", "",
	)).Map(func(parts []string) string {
		joined := "/"
		for _, part := range parts {
			if part != "" {
				joined += part + "/"
			}
		}
		return joined
	})
}

// The classifier is total: every (path, accountType) pair yields either an
// allow or a redirect to one of the three known targets, and a set account
// type is never bounced to the onboarding route.
func TestClassifyProperties(t *testing.T) {
	table := DefaultRouteTable()
	properties := gopter.NewProperties(nil)

	properties.Property("decision is allow or a known target", prop.ForAll(
		func(path string, accountType enums.AccountType) bool {
			decision := table.Classify(path, accountType)
			if decision.Allow {
				return decision.Target == ""
			}
			switch decision.Target {
			case RouteGetStarted, RouteListings, RouteOwnerHome:
				return true
			}
			return false
		},
		genPath(),
		genAccountType(),
	))

	properties.Property("set account type never redirects to get-started", prop.ForAll(
		func(path string, accountType enums.AccountType) bool {
			if !accountType.IsSet() {
				return true
			}
			decision := table.Classify(path, accountType)
			return decision.Allow || decision.Target != RouteGetStarted
		},
		genPath(),
		genAccountType(),
	))

	properties.Property("classification is deterministic", prop.ForAll(
		func(path string, accountType enums.AccountType) bool {
			return table.Classify(path, accountType) == table.Classify(path, accountType)
		},
		genPath(),
		genAccountType(),
	))

	properties.TestingRun(t)
}
