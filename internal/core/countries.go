package core

import (
	"fmt"
	"math/rand"
	"strings"
)

// digitRule enumerates the per-country digit layouts. Rules are data, not
// stored callables; dialDigits dispatches on the variant.
type digitRule int

const (
	ruleNANP      digitRule = iota // area+exchange+line within realistic ranges
	ruleUKMobile                   // 07x block
	ruleVNMobile                   // single mobile-prefix digit + 8 digits
	ruleFRMobile                   // 06/07 block as one wide range
	ruleDEMobile                   // 15x-17x block + 7 digits
	ruleAUMobile                   // leading 4 or 5 + 8 digits
	ruleJPMobile                   // 70/80/90 + 8 digits
	ruleINMobile                   // leading 7/8/9 + 9 digits
	ruleBRMobile                   // two-digit area + mandatory 9 + 8 digits
)

type Country struct {
	Code     string
	DialCode string
	Name     string
	Flag     string
	rule     digitRule
}

// countries is the fixed pattern table. US and Canada intentionally share
// the +1 dialing code while staying distinct, selectable entries; prefix
// lookup for +1 values is therefore inherently ambiguous (see CountryOf).
var countries = []Country{
	{Code: "US", DialCode: "+1", Name: "United States", Flag: "🇺🇸", rule: ruleNANP},
	{Code: "UK", DialCode: "+44", Name: "United Kingdom", Flag: "🇬🇧", rule: ruleUKMobile},
	{Code: "VN", DialCode: "+84", Name: "Vietnam", Flag: "🇻🇳", rule: ruleVNMobile},
	{Code: "FR", DialCode: "+33", Name: "France", Flag: "🇫🇷", rule: ruleFRMobile},
	{Code: "DE", DialCode: "+49", Name: "Germany", Flag: "🇩🇪", rule: ruleDEMobile},
	{Code: "CA", DialCode: "+1", Name: "Canada", Flag: "🇨🇦", rule: ruleNANP},
	{Code: "AU", DialCode: "+61", Name: "Australia", Flag: "🇦🇺", rule: ruleAUMobile},
	{Code: "JP", DialCode: "+81", Name: "Japan", Flag: "🇯🇵", rule: ruleJPMobile},
	{Code: "IN", DialCode: "+91", Name: "India", Flag: "🇮🇳", rule: ruleINMobile},
	{Code: "BR", DialCode: "+55", Name: "Brazil", Flag: "🇧🇷", rule: ruleBRMobile},
}

// Countries returns a copy of the supported-country table.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// randRange returns a uniform value in [lo, hi], both inclusive.
func randRange(lo, hi int) int {
	return lo + rand.Intn(hi-lo+1)
}

func pick(vals ...int) int {
	return vals[rand.Intn(len(vals))]
}

// dialDigits renders a candidate value for the country, dial code included.
func dialDigits(c Country) string {
	switch c.rule {
	case ruleNANP:
		return fmt.Sprintf("%s%d%d%d", c.DialCode, randRange(200, 999), randRange(200, 999), randRange(1000, 9999))
	case ruleUKMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, randRange(70, 79), randRange(10000000, 99999999))
	case ruleVNMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, pick(3, 5, 7, 8, 9), randRange(10000000, 99999999))
	case ruleFRMobile:
		return fmt.Sprintf("%s%d", c.DialCode, randRange(600000000, 799999999))
	case ruleDEMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, randRange(150, 179), randRange(1000000, 9999999))
	case ruleAUMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, pick(4, 5), randRange(10000000, 99999999))
	case ruleJPMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, pick(70, 80, 90), randRange(10000000, 99999999))
	case ruleINMobile:
		return fmt.Sprintf("%s%d%d", c.DialCode, pick(7, 8, 9), randRange(100000000, 999999999))
	case ruleBRMobile:
		return fmt.Sprintf("%s%d9%d", c.DialCode, randRange(11, 99), randRange(10000000, 99999999))
	default:
		return fmt.Sprintf("%s%d", c.DialCode, randRange(2000000000, 9999999999))
	}
}

// providerFlags maps provider-side country names to flag glyphs for
// real-origin numbers, which bypass the pattern table.
var providerFlags = map[string]string{
	"russia":      "🇷🇺",
	"ukraine":     "🇺🇦",
	"kazakhstan":  "🇰🇿",
	"china":       "🇨🇳",
	"philippines": "🇵🇭",
	"vietnam":     "🇻🇳",
	"usa":         "🇺🇸",
	"uk":          "🇬🇧",
	"poland":      "🇵🇱",
}

func flagForProviderCountry(country string) string {
	if f, ok := providerFlags[strings.ToLower(country)]; ok {
		return f
	}
	return "🌍"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
