package dto

import "github.com/peerlaunch/launchpad_api/shared"

// PageLimit clamps a requested page size into [1, MaxPageLimit], defaulting when unset.
func PageLimit(limit int) int {
	switch {
	case limit <= 0:
		return shared.DefaultPageLimit
	case limit > shared.MaxPageLimit:
		return shared.MaxPageLimit
	default:
		return limit
	}
}
