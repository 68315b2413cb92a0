package synth

import (
	"fmt"
	"math/rand"
)

// Two content families. Verification gets a generic sender label; service
// messages impersonate a known consumer brand, several with brand-specific
// formatting quirks (Google prefixes the code with "G-").

var verificationTemplates = []string{
	"Your verification code is: %s",
	"Verification code: %s. Do not share this code.",
	"Your OTP is %s. Valid for 10 minutes.",
	"Code: %s. Enter this to verify your account.",
	"Security code: %s. Don't give this to anyone.",
	"%s is your verification code",
	"Use %s to verify your phone number",
	"Your login code: %s",
}

var verificationSenders = []string{"Verify", "Auth", "Security", "Code", "OTP"}

type brandTemplate struct {
	Brand    string
	Template string
}

var serviceTemplates = []brandTemplate{
	{"Google", "G-%s is your Google verification code."},
	{"Facebook", "Your Facebook code is %s"},
	{"Instagram", "%s is your Instagram code. Don't share it."},
	{"WhatsApp", "WhatsApp code: %s. Don't share this code."},
	{"Twitter", "Your Twitter confirmation code is %s."},
	{"Telegram", "Telegram code: %s"},
	{"Discord", "Your Discord verification code is: %s"},
	{"TikTok", "Your TikTok verification code is %s"},
	{"Uber", "Your Uber code is %s"},
	{"PayPal", "PayPal: Your security code is %s"},
	{"Amazon", "Amazon: Your OTP is %s"},
	{"Netflix", "Netflix verification code: %s"},
	{"Spotify", "Your Spotify code: %s"},
	{"Apple", "Your Apple ID Code is: %s"},
	{"Microsoft", "Microsoft account security code: %s"},
	{"LinkedIn", "Your LinkedIn verification code: %s"},
	{"Snapchat", "Snapchat code: %s. Do not share!"},
	{"Reddit", "Your Reddit verification code is %s"},
	{"Twitch", "Twitch: Your verification code is %s"},
	{"Steam", "Your Steam Guard access code is %s"},
}

const (
	familyVerification = "verification"
	familyService      = "service"
)

// verificationWeight is the percentage of draws that land in the
// verification family; the rest are service-branded.
const verificationWeight = 60

func code() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}

// draw picks a family by weighted random, then a template uniformly within
// it, and renders a fresh 6-digit code into it.
func draw() (family, sender, body string) {
	c := code()
	if rand.Intn(100) < verificationWeight {
		tpl := verificationTemplates[rand.Intn(len(verificationTemplates))]
		sender = verificationSenders[rand.Intn(len(verificationSenders))]
		return familyVerification, sender, fmt.Sprintf(tpl, c)
	}
	bt := serviceTemplates[rand.Intn(len(serviceTemplates))]
	return familyService, bt.Brand, fmt.Sprintf(bt.Template, c)
}
