package logging

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	RequestIDHeader     = "X-Request-ID"
	TraceIDContextKey   = "trace_id"
	startTimestampStyle = "2006-01-02T15:04:05.000000-0700"

	maxRequestIDLength = 128
)

// incomingRequestID returns the client supplied request id when it is a
// plain token, otherwise "".
func incomingRequestID(h http.Header) string {
	id := h.Get(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return ""
		}
	}
	return id
}

// Interceptor captures every HTTP exchange into one request summary line.
type Interceptor struct {
	logger             *Logger
	redactor           *Redactor
	exemptions         *Exemptions
	captureRequestBody bool
	defaultHost        string
	propagator         propagation.TextMapPropagator
}

type InterceptorOptions struct {
	Exemptions         *Exemptions
	CaptureRequestBody bool
	// DefaultHost is reported as request_host when the local address of
	// the connection is unknown.
	DefaultHost string
}

func NewInterceptor(logger *Logger, redactor *Redactor, opts InterceptorOptions) *Interceptor {
	exemptions := opts.Exemptions
	if exemptions == nil {
		exemptions = NewExemptions(nil, nil)
	}
	return &Interceptor{
		logger:             logger,
		redactor:           redactor,
		exemptions:         exemptions,
		captureRequestBody: opts.CaptureRequestBody,
		defaultHost:        opts.DefaultHost,
		propagator:         propagation.TraceContext{},
	}
}

func (i *Interceptor) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			ctx := i.propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))
			if _, ok := TraceIDFromContext(ctx); !ok {
				if id := incomingRequestID(req.Header); id != "" {
					ctx = WithTraceID(ctx, id)
				}
			}
			ctx, traceID := EnsureTraceID(ctx)
			req = req.WithContext(ctx)
			c.SetRequest(req)
			c.Set(TraceIDContextKey, traceID)
			c.Response().Header().Set(RequestIDHeader, traceID)

			log := i.logger.Ctx(ctx)

			var requestBody []byte
			if i.captureRequestBody {
				var err error
				if requestBody, err = bufferRequestBody(req); err != nil {
					i.guard(func() { log.Warn("failed to buffer request body", zap.Error(err)) })
				}
			}

			res := c.Response()
			original := res.Writer
			buffered := newBufferedWriter(original.Header())
			res.Writer = buffered

			defer func() {
				res.Writer = original
				if r := recover(); r != nil {
					stack := CaptureStack(0)
					i.guard(func() {
						log.Error(fmt.Sprintf("Exception: %v", r), PanicException(r, stack))
					})
					_ = buffered.flushTo(original)
					panic(r)
				}
			}()

			if err := next(c); err != nil {
				// HTTP errors are ordinary responses: render them into the
				// buffer and summarize them like any other exchange.
				var he *echo.HTTPError
				if !errors.As(err, &he) {
					i.guard(func() {
						log.Error(fmt.Sprintf("Exception: %v", err), Exception(err))
					})
					_ = buffered.flushTo(original)
					return err
				}
				c.Error(err)
			}

			duration := elapsedMillis(start)
			if err := buffered.flushTo(original); err != nil {
				return err
			}

			if i.exemptions.Match(req.URL.Path) {
				return nil
			}

			i.guard(func() {
				summary := i.summarize(c, req, requestBody, buffered, duration)
				log.Info(
					summaryMessage(req, c.Scheme(), start, traceID, summary),
					zap.Inline(summary),
				)
			})
			return nil
		}
	}
}

// guard keeps failures in the logging path away from the response.
func (i *Interceptor) guard(emit func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "request logging failed: %v\n", r)
		}
	}()
	emit()
}

func (i *Interceptor) summarize(c echo.Context, req *http.Request, requestBody []byte, w *bufferedWriter, duration int64) *RequestSummary {
	summary := &RequestSummary{
		URI:                requestURL(req, c.Scheme()),
		Referer:            req.Header.Get("Referer"),
		Method:             req.Method,
		Path:               req.URL.Path,
		Host:               i.localHost(req),
		Size:               max(req.ContentLength, 0),
		ContentType:        req.Header.Get(echo.HeaderContentType),
		Headers:            i.redactor.Headers(req.Header),
		Direction:          DirectionIn,
		ResponseStatusCode: w.statusCode(),
		ResponseSize:       responseSize(w),
		ResponseHeaders:    i.redactor.Headers(w.Header()),
		Duration:           duration,
	}

	if requestBody != nil {
		body := bodyText(requestBody)
		summary.Body = &body
	}
	responseBody := FilterBody(w.body.Bytes())
	summary.ResponseBody = &responseBody

	return summary
}

func (i *Interceptor) localHost(req *http.Request) string {
	if addr, ok := req.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		return addr.String()
	}
	return i.defaultHost
}

func responseSize(w *bufferedWriter) int64 {
	if n, err := strconv.ParseInt(w.Header().Get(echo.HeaderContentLength), 10, 64); err == nil {
		return n
	}
	return int64(w.body.Len())
}

func requestURL(req *http.Request, scheme string) string {
	return scheme + "://" + req.Host + req.URL.RequestURI()
}

func elapsedMillis(start time.Time) int64 {
	return int64(math.Ceil(float64(time.Since(start)) / float64(time.Millisecond)))
}

// summaryMessage renders the access-log style line, e.g.
// 127.0.0.1:59354 - 2024-03-07T18:39:45.425493+0800 77cec0c1... "POST   http://localhost:8000/api/v1/auth/login HTTP/1.1" 200 "OK" 60ms
func summaryMessage(req *http.Request, scheme string, start time.Time, traceID string, s *RequestSummary) string {
	return fmt.Sprintf(`%s - %s %s "%-7s%s %s" %d "%s" %dms`,
		req.RemoteAddr,
		start.Format(startTimestampStyle),
		traceID,
		s.Method,
		s.URI,
		req.Proto,
		s.ResponseStatusCode,
		http.StatusText(s.ResponseStatusCode),
		s.Duration,
	)
}
