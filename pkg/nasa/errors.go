package nasa

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
)

func classifyStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return apperr.New(apperr.KindRateLimited, "upstream rate limit exceeded")
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return apperr.New(apperr.KindUnauthorized, "upstream unauthorized: check NASA_API_KEY")
	case status == http.StatusNotFound:
		return apperr.New(apperr.KindNotFound, "upstream resource not found")
	case status >= 500:
		return apperr.New(apperr.KindBadGateway, "upstream bad gateway")
	default:
		return apperr.New(apperr.KindInternal, "upstream request failed")
	}
}

func classifyTransport(err error) error {
	if isTimeout(err) {
		return apperr.Wrap(apperr.KindTimeout, "upstream request timeout", err)
	}
	return apperr.Wrap(apperr.KindInternal, "upstream request failed", err)
}

// stripKey removes the api_key parameter from the URL carried by transport
// errors, so the key cannot reach logs or error responses through them.
func stripKey(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		ue.URL = "[unparseable url]"
		return err
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Del("api_key")
		u.RawQuery = q.Encode()
		ue.URL = u.String()
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isConnectionError reports failures where no usable response reached us:
// timeouts, DNS failures, refused or reset connections.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if isTimeout(err) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
