package locale

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeoIP asks an ipapi.co style service for the bare country code of an address.
type GeoIP struct {
	httpClient *http.Client
	baseURL    string
}

func NewGeoIP(baseURL string, timeout time.Duration) *GeoIP {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GeoIP{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Country looks up ip, or the caller's own public address when ip is empty.
func (g *GeoIP) Country(ctx context.Context, ip string) (string, error) {
	reqURL := g.baseURL + "/country/"
	if ip != "" {
		reqURL = g.baseURL + "/" + url.PathEscape(ip) + "/country/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(strings.TrimSpace(string(body)))
	if !isCountryCode(code) {
		return "", fmt.Errorf("geoip: unexpected answer %q", code)
	}
	return code, nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
