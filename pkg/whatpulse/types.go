package whatpulse

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// AccountTotals holds the account's lifetime counters and leaderboard ranks.
// Download and upload are megabytes, uptime is seconds.
type AccountTotals struct {
	Clicks   uint64 `json:"clicks"`
	Download uint64 `json:"download"`
	Keys     uint64 `json:"keys"`
	Upload   uint64 `json:"upload"`
	Uptime   uint64 `json:"uptime"`
	Ranks    Ranks  `json:"ranks"`
}

// Ranks is the account's leaderboard position per metric; 1 is the top.
type Ranks struct {
	Clicks   uint64 `json:"clicks"`
	Download uint64 `json:"download"`
	Keys     uint64 `json:"keys"`
	Upload   uint64 `json:"upload"`
	Uptime   uint64 `json:"uptime"`
}

// UnpulsedStats mirrors /v1/unpulsed: counters not yet submitted by a pulse.
// The body is decoded without conversion, so a fractional or negative value
// fails the fetch rather than being truncated.
type UnpulsedStats struct {
	Clicks   uint64 `json:"clicks"`
	Download uint64 `json:"download"`
	Keys     uint64 `json:"keys"`
	Upload   uint64 `json:"upload"`
	Uptime   uint64 `json:"uptime"`
}

// rawAccountTotals mirrors /v1/account-totals, where every number is sent as a string.
type rawAccountTotals struct {
	Clicks   json.Number `json:"clicks"`
	Download json.Number `json:"download"`
	Keys     json.Number `json:"keys"`
	Upload   json.Number `json:"upload"`
	Uptime   json.Number `json:"uptime"`
	Ranks    struct {
		Clicks   json.Number `json:"rank_clicks"`
		Download json.Number `json:"rank_download"`
		Keys     json.Number `json:"rank_keys"`
		Upload   json.Number `json:"rank_upload"`
		Uptime   json.Number `json:"rank_uptime"`
	} `json:"ranks"`
}

func (r rawAccountTotals) convert() (AccountTotals, error) {
	var (
		out AccountTotals
		err error
	)
	fields := []struct {
		name string
		in   json.Number
		dst  *uint64
	}{
		{"clicks", r.Clicks, &out.Clicks},
		{"download", r.Download, &out.Download},
		{"keys", r.Keys, &out.Keys},
		{"upload", r.Upload, &out.Upload},
		{"uptime", r.Uptime, &out.Uptime},
		{"rank_clicks", r.Ranks.Clicks, &out.Ranks.Clicks},
		{"rank_download", r.Ranks.Download, &out.Ranks.Download},
		{"rank_keys", r.Ranks.Keys, &out.Ranks.Keys},
		{"rank_upload", r.Ranks.Upload, &out.Ranks.Upload},
		{"rank_uptime", r.Ranks.Uptime, &out.Ranks.Uptime},
	}
	for _, f := range fields {
		if *f.dst, err = parseCounter(f.name, f.in); err != nil {
			return AccountTotals{}, err
		}
	}
	return out, nil
}

func parseCounter(name string, n json.Number) (uint64, error) {
	if n == "" {
		return 0, errors.Errorf("field %s is missing", name)
	}
	v, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "field %s", name)
	}
	return v, nil
}

// Projected returns the totals as they would read once the unpulsed stats are
// merged by a pulse. Ranks are carried over unchanged.
func (t AccountTotals) Projected(u UnpulsedStats) AccountTotals {
	t.Clicks += u.Clicks
	t.Download += u.Download
	t.Keys += u.Keys
	t.Upload += u.Upload
	t.Uptime += u.Uptime
	return t
}

// IsZero reports whether no counter has accumulated since the last pulse.
func (u UnpulsedStats) IsZero() bool {
	return u == UnpulsedStats{}
}
