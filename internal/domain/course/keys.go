package course

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const fingerprintLength = 32

// Normalize trims, lowercases and collapses whitespace runs to a single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// NameLocationKey is the primary fallback match key: normalized name and location label.
func NameLocationKey(displayName, location string) string {
	return Normalize(displayName) + "|" + Normalize(location)
}

// Fingerprint is the stricter fallback key. Name and location still participate so that
// distinct layouts sharing a venue and coordinates never collide.
func Fingerprint(displayName, location string, latitude, longitude *float64, holeCount *int) string {
	payload := strings.Join([]string{
		Normalize(displayName),
		Normalize(location),
		formatFloat(latitude),
		formatFloat(longitude),
		formatInt(holeCount),
	}, "|")

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// DeriveKeys fills both match keys from the course attributes.
func (c *Course) DeriveKeys() {
	c.NameLocationKey = NameLocationKey(c.DisplayName, c.Location)
	c.Fingerprint = Fingerprint(c.DisplayName, c.Location, c.Latitude, c.Longitude, c.HoleCount)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
