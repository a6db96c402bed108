// Package tracks holds the fixed catalog of program tracks a lead can apply to
// and the checkout redirect built from a track.
package tracks

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrUnknownTrack is returned for tags outside the catalog.
var ErrUnknownTrack = errors.New("tracks: unknown track")

// Track tags.
const (
	CodeOfConsistency = "coc"
	GuaranteedEdge    = "edge"
	DiscordPremium    = "discord"
	LiveTrades        = "live"
)

// Track is one program offering. Price is a display string, not a billing amount.
type Track struct {
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

var catalog = []Track{
	{
		Tag:         CodeOfConsistency,
		Title:       "Code of Consistency",
		Price:       "$249",
		Description: "A structured year-long path to a repeatable, rules-based trading routine.",
	},
	{
		Tag:         GuaranteedEdge,
		Title:       "The Guaranteed Edge",
		Price:       "$149",
		Description: "A capital-allocation program built around fixed daily time and defined risk.",
	},
	{
		Tag:         DiscordPremium,
		Title:       "Discord Premium Membership Access",
		Price:       "$13",
		Description: "Live rooms, Q&As, resources, accountability: momentum and support to stay on track each day.",
	},
	{
		Tag:         LiveTrades,
		Title:       "Live Trades Callouts & Investment Insights",
		Price:       "$13",
		Description: "Real-time callouts and concise market summaries delivered where you already are.",
	},
}

// All returns the catalog in chooser display order.
func All() []Track {
	out := make([]Track, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a track by tag. Tags are matched exactly.
func Lookup(tag string) (Track, bool) {
	for _, t := range catalog {
		if t.Tag == tag {
			return t, true
		}
	}
	return Track{}, false
}

// Known reports whether tag names a catalog track.
func Known(tag string) bool {
	_, ok := Lookup(tag)
	return ok
}

// CheckoutURL appends service and price query parameters to base, keeping any
// query parameters base already carries.
func CheckoutURL(base string, t Track) string {
	params := url.Values{}
	params.Set("service", t.Tag)
	params.Set("price", t.Price)

	base = strings.TrimSpace(base)
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + params.Encode()
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Handler serves the catalog for the track chooser.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tracks": All()})
}
