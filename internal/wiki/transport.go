// Copyright 2025 The GoodWiki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wiki

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// userAgentTransport sets the User-Agent header the API etiquette requires.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so the caller's request is left untouched
	req = req.Clone(req.Context())
	if t.agent != "" {
		req.Header.Set("User-Agent", t.agent)
	}
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// rateLimitTransport delays requests so that at most limit requests per
// second reach the API. Waiting honors the request context.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper with client-side throttling.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	return t.base.RoundTrip(req)
}

// newTransport stacks the user agent and, when requestsPerSecond is
// positive, the rate limit transport on top of base.
func newTransport(base http.RoundTripper, agent string, requestsPerSecond float64) http.RoundTripper {
	var rt http.RoundTripper = &userAgentTransport{agent: agent, base: base}
	if requestsPerSecond > 0 {
		rt = &rateLimitTransport{
			base:    rt,
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		}
	}
	return rt
}
