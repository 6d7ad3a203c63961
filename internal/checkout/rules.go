// Package checkout validates the checkout form.
package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

type Rule uint8

const (
	RuleRequired Rule = iota + 1
	RuleEmail
	RuleCard
	RuleExpiry
	RuleCVV
	RuleZip
)

var ruleNames = map[Rule]string{
	RuleRequired: "required",
	RuleEmail:    "email",
	RuleCard:     "card",
	RuleExpiry:   "expiry",
	RuleCVV:      "cvv",
	RuleZip:      "zip",
}

func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

// ParseRule maps a rule name to its Rule. A blank name means RuleRequired.
func ParseRule(name string) (Rule, bool) {
	switch strings.TrimSpace(name) {
	case "", "required":
		return RuleRequired, true
	case "email":
		return RuleEmail, true
	case "card":
		return RuleCard, true
	case "expiry":
		return RuleExpiry, true
	case "cvv":
		return RuleCVV, true
	case "zip":
		return RuleZip, true
	}
	return 0, false
}

// ParseRules reads a comma separated list like "required,email". Unknown names are skipped.
func ParseRules(list string) []Rule {
	var out []Rule
	for _, name := range strings.Split(list, ",") {
		if r, ok := ParseRule(name); ok {
			out = append(out, r)
		}
	}
	return out
}

const (
	MsgRequired = "This field is required"
	MsgEmail    = "Enter a valid email address"
	MsgCard     = "Enter a valid card number"
	MsgExpiry   = "Enter MM/YY format"
	MsgCVV      = "Enter a valid CVV"
	MsgZip      = "Enter a valid postal code"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardRe   = regexp.MustCompile(`^\d{4}\s?\d{4}\s?\d{4}\s?\d{4}$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/?([0-9]{2})$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
	spaceRe  = regexp.MustCompile(`\s`)
)

const minZipLen = 3

// Check returns the failure message for value, or "" when it passes.
func (r Rule) Check(value string) string {
	switch r {
	case RuleRequired:
		if strings.TrimSpace(value) == "" {
			return MsgRequired
		}
	case RuleEmail:
		if !emailRe.MatchString(value) {
			return MsgEmail
		}
	case RuleCard:
		if !cardRe.MatchString(spaceRe.ReplaceAllString(value, "")) {
			return MsgCard
		}
	case RuleExpiry:
		if !expiryRe.MatchString(value) {
			return MsgExpiry
		}
	case RuleCVV:
		if !cvvRe.MatchString(value) {
			return MsgCVV
		}
	case RuleZip:
		if len([]rune(strings.TrimSpace(value))) < minZipLen {
			return MsgZip
		}
	default:
		panic(fmt.Sprintf("checkout: unhandled %s", r))
	}
	return ""
}
