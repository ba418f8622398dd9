package system

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alexghenderson/downloader-ctl/internal/errors"
)

// CheckServerReachable verifies the download-control service host resolves
// and accepts TCP connections. It does not speak the downloads API; that is
// the remote client's job.
func CheckServerReachable(ctx context.Context, baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return errors.NewFriendlyError(
			fmt.Sprintf("Server URL is not parseable: %s", baseURL),
			"Fix server.url in your config, e.g. http://nas.local:8080",
		)
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	// 1. DNS resolution check (skipped for IP literals)
	if net.ParseIP(host) == nil {
		resolver := &net.Resolver{}
		if _, err := resolver.LookupHost(ctx, host); err != nil {
			return errors.NewFriendlyError(
				fmt.Sprintf("Cannot resolve host: %s", host),
				"Check that the hostname in server.url is correct and your DNS is working:\n"+
					fmt.Sprintf("1. Test DNS: nslookup %s\n", host)+
					"2. Check DNS servers: cat /etc/resolv.conf",
			).WithDetails(err)
		}
	}

	// 2. TCP connectivity check
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return errors.NewFriendlyError(
			fmt.Sprintf("Cannot connect to %s", net.JoinHostPort(host, port)),
			"The download-control service is unreachable:\n"+
				"1. Check the service is running\n"+
				"2. Verify the port is not blocked by a firewall\n"+
				fmt.Sprintf("3. Try: curl -i %s/downloads", baseURL),
		).WithDetails(err)
	}
	conn.Close()

	return nil
}

// DetectProxySettings returns proxy configuration from environment
func DetectProxySettings() map[string]string {
	proxies := make(map[string]string)

	envVars := []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy"}

	for _, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			proxies[envVar] = val
		}
	}

	// Also try to detect via ProxyFromEnvironment for HTTP/HTTPS
	dummyReq, _ := http.NewRequest("GET", "http://example.com", nil)
	if proxyURL, _ := http.ProxyFromEnvironment(dummyReq); proxyURL != nil {
		if _, exists := proxies["HTTP_PROXY"]; !exists {
			proxies["HTTP_PROXY"] = proxyURL.String()
		}
	}

	return proxies
}
