package update

import (
	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/version"
)

// Decision is the outcome of a single update negotiation. It is derived
// fresh for every request and never cached per client.
type Decision struct {
	HasUpdate bool
	Forced    bool
	Target    *catalog.Release
}

// Decide determines whether the given release is an update for the client.
// An update exists exactly when the release version is strictly greater
// than the client's; forcing is a publishing decision carried on the
// release, never derived from the size of the version jump.
//
// Inputs are assumed valid: version parse failures are a boundary concern
// and must be handled before reaching the engine.
func Decide(client version.Version, release catalog.Release) Decision {
	hasUpdate := version.Compare(release.Version, client) > 0

	decision := Decision{HasUpdate: hasUpdate}
	if hasUpdate {
		decision.Forced = release.Forced
		decision.Target = &release
	}
	return decision
}
