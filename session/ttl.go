package session

import (
	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// EffectiveMaxTTL returns the expiry cap for the acting principal: the
// per-user override when set and nonzero, else the server-wide cap.
// A zero user cap defers to the server, a negative cap means unlimited.
func EffectiveMaxTTL(user *types.User, cfg *types.ServerConfig) int {
	if user != nil && user.MaxTTL != 0 {
		return user.MaxTTL
	}
	if cfg == nil {
		return 0
	}
	return cfg.MaxTTL
}

// ValidateTTL checks a requested TTL in seconds against the effective
// cap. The returned error carries the human-readable reason shown to the
// user. Pure function of its inputs.
//
// ttl = 0 is invalid: -1 is the only encoding for never-expiring and a
// concrete delay must be positive. -1 is only allowed when the cap
// itself is unlimited or absent.
func ValidateTTL(ttl int, maxTTL int) error {
	if ttl == types.TTLUnlimited {
		if maxTTL > 0 {
			return types.NewClientError("Never expiring uploads are not allowed, maximum expiration delay is : %s",
				tool.HumanReadableTTLString(maxTTL))
		}
		return nil
	}
	if ttl <= 0 {
		return types.NewClientError("Invalid expiration delay : %s", tool.HumanReadableTTLString(ttl))
	}
	if maxTTL > 0 && ttl > maxTTL {
		return types.NewClientError("Invalid expiration delay : %s, maximum expiration delay is : %s",
			tool.HumanReadableTTLString(ttl), tool.HumanReadableTTLString(maxTTL))
	}
	return nil
}

// DefaultTTL returns the TTL presented by default. When the cap is
// positive and below the server-wide default, the default is clamped
// down so it would not fail its own validation.
func DefaultTTL(maxTTL int, serverDefault int) int {
	if maxTTL > 0 && (serverDefault > maxTTL || serverDefault <= 0) {
		return maxTTL
	}
	return serverDefault
}

// TTLUnits returns the expiry units offered to the user. The unlimited
// unit is only offered when the cap allows never-expiring uploads.
func TTLUnits(maxTTL int) []string {
	if maxTTL < 0 {
		return []string{"days", "hours", "minutes", "unlimited"}
	}
	return []string{"days", "hours", "minutes"}
}
