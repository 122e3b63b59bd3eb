package workerproto

import "github.com/eburns009/ephemeris-service/internal/compute"

// JobPayload is the KindJob message body: a single compute.Request. The
// worker evaluates it against the bundle it opened at startup.
type JobPayload struct {
	Request compute.Request `json:"request"`
}

// ResultPayload is the KindResult message body.
type ResultPayload struct {
	Result compute.Result `json:"result"`
}

// ErrorPayload is the KindError message body. Code is one of the internal
// error taxonomy codes (see internal/apierr), not an HTTP status.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReadyPayload is the KindReady message body, sent once after the worker
// has opened its kernel bundle and is able to accept jobs.
type ReadyPayload struct {
	BundleID string `json:"bundle_id"`
}
