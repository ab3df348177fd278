package hargen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pb33f/harhar"
)

// controllers never collide with the excluded prefixes or the login path
var controllers = []string{
	"vm_infra", "vm_cloud", "host", "ems_cloud", "ems_infra",
	"report", "miq_request", "ops", "service", "catalog",
}

// noisePaths are requests a browser makes that a replay never needs
var noisePaths = []string{
	"/assets/application-%s.js",
	"/assets/application-%s.css",
	"/static/%s.png",
	"/dashboard/widget_chart_data/%s",
	"/ws/notifications",
	"/api/notifications?expand=resources&%s=1",
	"/api/auth?requester_type=ui&%s=1",
	"/api",
}

const (
	loginPath  = "/dashboard/authenticate"
	tokenName  = "X-CSRF-Token"
	tokenParam = "authenticity_token"
)

type sessionGenerator struct {
	dict  *Dictionary
	rng   *rand.Rand
	opts  GenerateOptions
	clock time.Time
}

func newSessionGenerator(dict *Dictionary, rng *rand.Rand, opts GenerateOptions) *sessionGenerator {
	return &sessionGenerator{
		dict:  dict,
		rng:   rng,
		opts:  opts,
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (g *sessionGenerator) generate() ([]harhar.Entry, *Expectation) {
	expect := &Expectation{
		Username: g.opts.Username,
		Password: g.opts.Password,
		Paths:    make([]string, 0, g.opts.EntryCount),
		Excluded: g.opts.NoiseCount,
	}

	var entries []harhar.Entry
	if !g.opts.SkipLogin {
		for i := 0; i < g.opts.LoginRetries; i++ {
			entries = append(entries, g.loginEntry(g.opts.Password+"-wrong"))
		}
		entries = append(entries, g.loginEntry(g.opts.Password))
		expect.LoginAttempts = g.opts.LoginRetries + 1
	}

	slow := g.pickSlow()
	noiseAt := g.noisePositions()

	for i := 0; i < g.opts.EntryCount; i++ {
		for n := noiseAt[i]; n > 0; n-- {
			entries = append(entries, g.noiseEntry())
		}

		entry, path := g.appEntry(i, slow[i])
		entries = append(entries, entry)
		expect.Paths = append(expect.Paths, path)
	}
	// noise that landed after the last application request
	for n := noiseAt[g.opts.EntryCount]; n > 0; n-- {
		entries = append(entries, g.noiseEntry())
	}

	expect.Slow = len(slow)
	if g.opts.TokenRotations > 0 && g.opts.EntryCount > 0 {
		expect.TokenRefreshes = min(g.opts.TokenRotations, g.opts.EntryCount)
	}

	return entries, expect
}

// pickSlow selects which application requests exceed the slow threshold
func (g *sessionGenerator) pickSlow() map[int]bool {
	slow := make(map[int]bool, g.opts.SlowCount)
	for _, idx := range g.rng.Perm(g.opts.EntryCount)[:g.opts.SlowCount] {
		slow[idx] = true
	}
	return slow
}

// noisePositions maps an application request index to the number of noise
// entries placed before it; index EntryCount holds the trailing noise.
func (g *sessionGenerator) noisePositions() map[int]int {
	positions := make(map[int]int)
	for i := 0; i < g.opts.NoiseCount; i++ {
		positions[g.rng.Intn(g.opts.EntryCount+1)]++
	}
	return positions
}

func (g *sessionGenerator) loginEntry(password string) harhar.Entry {
	entry := g.newEntry("POST", g.opts.BaseURL+loginPath, 150+g.rng.Float64()*200)
	entry.Request.Body = harhar.BodyType{
		MIMEType: "application/x-www-form-urlencoded",
		Params: []harhar.PostNameValuePair{
			{Name: "user_name", Value: g.opts.Username},
			{Name: "user_password", Value: password},
		},
	}
	return entry
}

func (g *sessionGenerator) noiseEntry() harhar.Entry {
	pattern := noisePaths[g.rng.Intn(len(noisePaths))]
	path := pattern
	if pattern != "/api" && pattern != "/ws/notifications" {
		path = fmt.Sprintf(pattern, g.dict.RandomWord(g.rng))
	}
	return g.newEntry("GET", g.opts.BaseURL+path, 1+g.rng.Float64()*40)
}

// appEntry builds the index-th application request and returns its replay path
func (g *sessionGenerator) appEntry(index int, slow bool) (harhar.Entry, string) {
	path := fmt.Sprintf("/%s/%s",
		controllers[g.rng.Intn(len(controllers))],
		g.dict.RandomWord(g.rng))
	if g.rng.Intn(3) == 0 {
		path += fmt.Sprintf("?id=%d", g.rng.Intn(10000))
	}

	elapsed := g.rng.Float64() * g.opts.SlowThreshold * 0.5
	if slow {
		elapsed = g.opts.SlowThreshold + 1 + g.rng.Float64()*g.opts.SlowThreshold
	}

	method := "GET"
	if index%4 == 3 {
		method = "POST"
	}

	entry := g.newEntry(method, g.opts.BaseURL+path, elapsed)

	if token, ok := g.tokenFor(index); ok {
		entry.Request.Headers = append(entry.Request.Headers, harhar.NameValuePair{Name: tokenName, Value: token})
	}

	if method == "POST" {
		params := []harhar.PostNameValuePair{{Name: tokenParam, Value: fmt.Sprintf("form-%d", index)}}
		for n := g.rng.Intn(3); n > 0; n-- {
			params = append(params, harhar.PostNameValuePair{
				Name:  g.dict.RandomWord(g.rng),
				Value: g.dict.RandomWord(g.rng),
			})
		}
		entry.Request.Body = harhar.BodyType{
			MIMEType: "application/x-www-form-urlencoded",
			Params:   params,
		}
	}

	return entry, path
}

// tokenFor splits the application traffic into TokenRotations contiguous
// groups, each sharing one token value.
func (g *sessionGenerator) tokenFor(index int) (string, bool) {
	if g.opts.TokenRotations == 0 {
		return "", false
	}
	group := index * g.opts.TokenRotations / g.opts.EntryCount
	return fmt.Sprintf("token-%d-%08x", group, uint32(g.opts.Seed)+uint32(group)), true
}

func (g *sessionGenerator) newEntry(method, url string, elapsed float64) harhar.Entry {
	g.clock = g.clock.Add(time.Duration(elapsed)*time.Millisecond + 50*time.Millisecond)

	send := 0.5
	receive := 1.0
	wait := elapsed - send - receive
	if wait < 0 {
		wait = 0
	}

	return harhar.Entry{
		Start: g.clock.Format(time.RFC3339),
		Time:  elapsed,
		Request: harhar.Request{
			Method:      method,
			URL:         url,
			HTTPVersion: "HTTP/1.1",
			Headers: []harhar.NameValuePair{
				{Name: "Accept", Value: "text/html,application/json"},
				{Name: "User-Agent", Value: "Mozilla/5.0 (compatible; hargen/1.0)"},
			},
			HeadersSize: 300 + g.rng.Intn(200),
			BodySize:    -1,
		},
		Response: harhar.Response{
			StatusCode:  200,
			StatusText:  "OK",
			HTTPVersion: "HTTP/1.1",
			Body: harhar.BodyResponseType{
				MIMEType: "text/html",
			},
			HeadersSize: 250,
			BodySize:    0,
		},
		Timings: harhar.Timings{
			Send:    send,
			Wait:    wait,
			Receive: receive,
		},
	}
}
