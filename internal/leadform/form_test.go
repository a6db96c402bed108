package leadform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentequity/lead-intake/internal/tracks"
)

func validCommon() map[string]string {
	return map[string]string{
		"fullName":       "Jane Doe",
		"email":          "jane@example.com",
		"countryTz":      "India / IST",
		"tradedBefore":   "demo_once",
		"heardFrom":      "instagram",
		"biggestConcern": "staying_consistent",
	}
}

func TestFormFor_AllTracks(t *testing.T) {
	want := map[string][]string{
		"coc":     {"coc_reason", "coc_commit", "coc_studied_institution", "coc_forex_basics", "coc_current_struggles", "coc_hours_per_week"},
		"edge":    {"dailyMinutes", "capitalUSD", "riskComfort", "platforms"},
		"discord": {"discordTag", "focusArea", "expectations"},
		"live":    {"experienceLevel", "riskPercent", "markets", "delivery"},
	}
	for tag, names := range want {
		t.Run(tag, func(t *testing.T) {
			form, err := FormFor(tag)
			require.NoError(t, err)
			assert.Len(t, form.Questions, len(CommonQuestions)+len(names)+2)
			assert.NotEmpty(t, form.Brief.Title)

			for _, name := range append([]string{"fullName", "email"}, names...) {
				_, ok := form.Question(name)
				assert.True(t, ok, "missing %s", name)
			}

			track, _ := tracks.Lookup(tag)
			svc, _ := form.Question("service")
			price, _ := form.Question("price")
			assert.Equal(t, KindHidden, svc.Kind)
			assert.Equal(t, track.Tag, svc.Value)
			assert.Equal(t, track.Price, price.Value)
		})
	}
}

func TestFormFor_UnknownTrack(t *testing.T) {
	_, err := FormFor("vip")
	assert.True(t, errors.Is(err, tracks.ErrUnknownTrack))
}

func TestFormTitle(t *testing.T) {
	form, err := FormFor("edge")
	require.NoError(t, err)
	assert.Equal(t, "Apply: The Guaranteed Edge", form.Title())
}

func TestValidate(t *testing.T) {
	form, err := FormFor("live")
	require.NoError(t, err)

	answers := validCommon()
	answers["experienceLevel"] = "Beginner"
	answers["riskPercent"] = "0.5"
	answers["markets"] = "XAUUSD"
	answers["delivery"] = "Discord"
	require.NoError(t, form.Validate(answers))

	answers["email"] = "not-an-email"
	answers["riskPercent"] = "half"
	answers["heardFrom"] = "tv"
	delete(answers, "markets")

	err = form.Validate(answers)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"email":       "must be an email address",
		"riskPercent": "must be a number",
		"heardFrom":   "not an allowed option",
		"markets":     "required",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "email: must be an email address")
}

func TestValidate_RejectsDisplayNameEmail(t *testing.T) {
	form, err := FormFor("discord")
	require.NoError(t, err)

	answers := validCommon()
	answers["email"] = "Jane <jane@example.com>"
	answers["discordTag"] = "jane#1"
	answers["focusArea"] = "FX"
	answers["expectations"] = "rooms"

	var verr *ValidationError
	require.ErrorAs(t, form.Validate(answers), &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestPayload(t *testing.T) {
	form, err := FormFor("coc")
	require.NoError(t, err)

	answers := validCommon()
	answers["coc_reason"] = "side_income"
	answers["service"] = "edge"  // hidden fields win
	answers["price"] = "$1"      // hidden fields win
	answers["utm_source"] = "ig" // not a form field

	p := form.Payload(answers)
	assert.Equal(t, "coc", p["service"])
	assert.Equal(t, "$249", p["price"])
	assert.Equal(t, "Jane Doe", p["fullName"])
	assert.Equal(t, "side_income", p["coc_reason"])
	assert.Equal(t, "", p["coc_hours_per_week"])
	assert.NotContains(t, p, "utm_source")
	assert.Len(t, p, len(form.Questions))
}
