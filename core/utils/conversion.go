package utils

import (
	"strings"
)

// ToBool converts RouterOS style flags to bool.
// It handles bool, and strings such as "true", "yes" and "1".
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// CompactMAC strips separators from a MAC address and uppercases it,
// e.g. "aa:bb:cc:dd:ee:ff" -> "AABBCCDDEEFF".
func CompactMAC(mac string) string {
	r := strings.NewReplacer(":", "", "-", "", ".", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(mac)))
}
