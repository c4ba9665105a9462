package utils

import "strings"

const groupJIDSuffix = "@g.us"

// FormatPhoneNumber normalizes a phone number to the 55DDDXXXXYYYY wire
// format the gateway expects. Non-digits are stripped; numbers without the
// country code (10 or 11 digits) get the default 55 prefix. Anything else is
// passed through as digits.
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	numeric := b.String()

	if len(numeric) == 13 && strings.HasPrefix(numeric, "55") {
		return numeric
	}
	if len(numeric) == 10 || len(numeric) == 11 {
		return "55" + numeric
	}
	return numeric
}

// FormatGroupID ensures a WhatsApp group identifier carries the @g.us suffix.
func FormatGroupID(groupID string) string {
	if groupID != "" && !strings.Contains(groupID, groupJIDSuffix) {
		return groupID + groupJIDSuffix
	}
	return groupID
}
