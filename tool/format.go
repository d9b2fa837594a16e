package tool

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TTL units cycled through by the expiry selector. "unlimited" is only
// offered when the server allows never-expiring uploads.
var TTLUnits = []string{"days", "hours", "minutes", "unlimited"}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// TTLToSeconds converts a (value, unit) pair to seconds. The unlimited
// unit encodes to -1 whatever the value. A non-positive value with any
// other unit is invalid.
func TTLToSeconds(value int, unit string) (int, error) {
	if unit == "unlimited" {
		return -1, nil
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid expiration delay : %d %s", value, unit)
	}
	switch unit {
	case "minutes":
		return value * secondsPerMinute, nil
	case "hours":
		return value * secondsPerHour, nil
	case "days":
		return value * secondsPerDay, nil
	}
	return 0, fmt.Errorf("invalid expiration unit : %s", unit)
}

// HumanReadableTTL converts seconds back to the largest fitting unit.
// -1 maps to (-1, "unlimited").
func HumanReadableTTL(ttl int) (value int, unit string) {
	switch {
	case ttl == -1:
		return -1, "unlimited"
	case ttl < 0:
		return 0, "invalid"
	case ttl < secondsPerHour:
		return (ttl + secondsPerMinute/2) / secondsPerMinute, "minutes"
	case ttl < secondsPerDay:
		return (ttl + secondsPerHour/2) / secondsPerHour, "hours"
	default:
		return (ttl + secondsPerDay/2) / secondsPerDay, "days"
	}
}

// HumanReadableTTLString renders a TTL like "30 days" or "unlimited".
func HumanReadableTTLString(ttl int) string {
	value, unit := HumanReadableTTL(ttl)
	if value > 0 {
		return fmt.Sprintf("%d %s", value, unit)
	}
	return unit
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// HumanReadableSize renders a byte count like "1.25 MB". base must be
// 2 (1024 steps) or 10 (1000 steps). -1 renders as "unlimited".
func HumanReadableSize(size int64, base int) string {
	if size == -1 {
		return "unlimited"
	}
	step := float64(1000)
	if base == 2 {
		step = 1024
	}
	value := float64(size)
	idx := 0
	for value >= step && idx < len(sizeUnits)-1 {
		value /= step
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d B", size)
	}
	rounded := strconv.FormatFloat(value, 'f', 2, 64)
	rounded = strings.TrimRight(strings.TrimRight(rounded, "0"), ".")
	return rounded + " " + sizeUnits[idx]
}

// sizeIncrements maps accepted unit spellings to their byte multiplier,
// for base 2 and base 10 respectively.
var sizeIncrements = map[int][]struct {
	units      []string
	multiplier float64
}{
	2: {
		{[]string{"B", "Byte", "Bytes", "bytes"}, 1},
		{[]string{"k", "K", "kb", "KB", "KiB", "Ki", "ki"}, 1 << 10},
		{[]string{"m", "M", "mb", "MB", "MiB", "Mi", "mi"}, 1 << 20},
		{[]string{"g", "G", "gb", "GB", "GiB", "Gi", "gi"}, 1 << 30},
		{[]string{"t", "T", "tb", "TB", "TiB", "Ti", "ti"}, 1 << 40},
		{[]string{"p", "P", "pb", "PB", "PiB", "Pi", "pi"}, 1 << 50},
		{[]string{"e", "E", "eb", "EB", "EiB", "Ei", "ei"}, 1 << 60},
	},
	10: {
		{[]string{"B", "Byte", "Bytes", "bytes"}, 1},
		{[]string{"k", "K", "kb", "KB", "KiB", "Ki", "ki"}, 1e3},
		{[]string{"m", "M", "mb", "MB", "MiB", "Mi", "mi"}, 1e6},
		{[]string{"g", "G", "gb", "GB", "GiB", "Gi", "gi"}, 1e9},
		{[]string{"t", "T", "tb", "TB", "TiB", "Ti", "ti"}, 1e12},
		{[]string{"p", "P", "pb", "PB", "PiB", "Pi", "pi"}, 1e15},
		{[]string{"e", "E", "eb", "EB", "EiB", "Ei", "ei"}, 1e18},
	},
}

var sizeInputRe = regexp.MustCompile(`^([0-9.,]*)\s*(.*)$`)

// ParseHumanReadableSize parses human input like "1.5GB" or "100 KiB"
// back to a byte count. base must be 2 or 10.
func ParseHumanReadableSize(input string, base int) (int64, error) {
	increments, ok := sizeIncrements[base]
	if !ok {
		return 0, fmt.Errorf("invalid size base : %d", base)
	}
	match := sizeInputRe.FindStringSubmatch(strings.TrimSpace(input))
	if match == nil {
		return 0, fmt.Errorf("invalid size : %s", input)
	}
	amountStr := strings.ReplaceAll(match[1], ",", ".")
	unit := match[2]

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size : %s", input)
	}
	if unit == "" {
		return int64(amount + 0.5), nil
	}
	for _, increment := range increments {
		for _, u := range increment.units {
			if u == unit {
				return int64(amount*increment.multiplier + 0.5), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid size unit : %s", unit)
}
