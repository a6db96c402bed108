package tracks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tr, ok := Lookup("coc")
	require.True(t, ok)
	assert.Equal(t, "Code of Consistency", tr.Title)
	assert.Equal(t, "$249", tr.Price)

	_, ok = Lookup("COC")
	assert.False(t, ok, "tags are case sensitive")
	assert.False(t, Known("vip"))
	assert.True(t, Known(LiveTrades))
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	assert.Equal(t, []string{"coc", "edge", "discord", "live"}, []string{all[0].Tag, all[1].Tag, all[2].Tag, all[3].Tag})

	all[0].Price = "$0"
	tr, _ := Lookup("coc")
	assert.Equal(t, "$249", tr.Price)
}

func TestCheckoutURL(t *testing.T) {
	tr, _ := Lookup("edge")

	got := CheckoutURL("/checkout-razorpay", tr)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/checkout-razorpay", u.Path)
	assert.Equal(t, "edge", u.Query().Get("service"))
	assert.Equal(t, "$149", u.Query().Get("price"))

	got = CheckoutURL("https://silentequity.com/pay?ref=site", tr)
	u, err = url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "silentequity.com", u.Host)
	assert.Equal(t, "site", u.Query().Get("ref"))
	assert.Equal(t, "edge", u.Query().Get("service"))
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tracks []Track `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Tracks, 4)
	assert.Equal(t, "discord", body.Tracks[2].Tag)
}
