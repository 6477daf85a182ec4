package httpadapter

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

type rejectFunc func(reason string)

// rateLimitMiddleware applies one process-wide token bucket. Health and
// metrics probes bypass it.
func rateLimitMiddleware(next http.Handler, rps float64, burst int, onReject rejectFunc) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/rps))))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		if !limiter.Allow() {
			if onReject != nil {
				onReject("rate_limited")
			}
			w.Header().Set("Retry-After", retryAfter)
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// backpressureMiddleware admits at most maxInFlight concurrent requests and
// queues the rest for up to wait before answering 503.
func backpressureMiddleware(next http.Handler, maxInFlight int, wait time.Duration, onReject rejectFunc) http.Handler {
	if maxInFlight <= 0 {
		return next
	}
	slots := make(chan struct{}, maxInFlight)

	reject := func(w http.ResponseWriter) {
		if onReject != nil {
			onReject("backpressure")
		}
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "classifier is busy, retry later"})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case slots <- struct{}{}:
		default:
			if wait <= 0 {
				reject(w)
				return
			}
			timer := time.NewTimer(wait)
			select {
			case slots <- struct{}{}:
				timer.Stop()
			case <-timer.C:
				reject(w)
				return
			case <-r.Context().Done():
				timer.Stop()
				reject(w)
				return
			}
		}
		defer func() { <-slots }()
		next.ServeHTTP(w, r)
	})
}
