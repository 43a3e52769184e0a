package normalize

import (
	"regexp"
	"strings"
)

// Attribution is the agent/store pair derived from a free-text advisor cell.
type Attribution struct {
	Agent string
	Store string
}

// UnknownStore is reported when neither keywords nor extension ranges match.
const UnknownStore = "Unknown Store"

var extensionRe = regexp.MustCompile(`\d{3}`)

// storeKeywords maps explicit location keywords to store names. Keywords are
// checked before extension ranges: text beats numbers.
var storeKeywords = []struct {
	keyword string
	store   string
}{
	{"seward", "Seward"},
	{"eagle", "Eagle River"},
	{"airport", "Airport"},
	{"cushman", "Cushman"},
	{"m1", "Steese"},
}

// Advisor derives an agent name and store identity from an advisor cell such
// as "Ray . - 102". The extension ranges mirror the dealership group's phone
// numbering plan and must stay literal: 531 and 532 belong to Eagle River
// even though the rest of the 5xx block splits between Seward and Steese.
func Advisor(raw string) Attribution {
	ext := extensionRe.FindString(raw)

	agent := strings.TrimSpace(strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return -1
		}
		return r
	}, raw))
	if agent == "" && ext != "" {
		agent = "Advisor " + ext
	}

	return Attribution{Agent: agent, Store: storeFor(strings.ToLower(raw), ext)}
}

// SubjectStore derives a store name from free message context such as a
// subject line. It returns "" when the text names no known store.
func SubjectStore(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range storeKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.store
		}
	}
	return ""
}

func storeFor(lower, ext string) string {
	for _, rule := range storeKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.store
		}
	}

	if ext == "" {
		return UnknownStore
	}
	switch ext[0] {
	case '1':
		return "Gaffney"
	case '2':
		return "Airport"
	case '3':
		return "Cushman"
	case '4':
		return "Illinois"
	case '5':
		if ext == "531" || ext == "532" {
			return "Eagle River"
		}
		if strings.HasPrefix(ext, "52") {
			return "Seward"
		}
		return "Steese"
	}
	return UnknownStore
}
