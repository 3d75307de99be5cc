package endpoints

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"time"

	httptransport "github.com/go-kit/kit/transport/http"
)

var (
	_ httptransport.Headerer = (*AddResponse)(nil)

	_ httptransport.StatusCoder = (*AddResponse)(nil)

	_ httptransport.Headerer = (*StatusResponse)(nil)

	_ httptransport.StatusCoder = (*StatusResponse)(nil)
)

// NaNSentinel is the JSON value written in place of a NaN result.
const NaNSentinel = `"NaN"`

// Result is an add result. Finite values encode as JSON numbers, NaN as
// NaNSentinel and infinities as null.
type Result float64

func (r Result) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return []byte(NaNSentinel), nil
	case math.IsInf(f, 0):
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON reverses MarshalJSON. The sign of an infinite result is not
// carried on the wire, so null decodes as +Inf.
func (r *Result) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case NaNSentinel:
		*r = Result(math.NaN())
		return nil
	case "null":
		*r = Result(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Result(f)
	return nil
}

// AddResponse collects the response values for the Add method.
type AddResponse struct {
	Result Result `json:"result"`
	Err    error  `json:"-"`
}

// Failed implements Failer.
func (r AddResponse) Failed() error { return r.Err }

func (r AddResponse) StatusCode() int {
	return http.StatusOK
}

func (r AddResponse) Headers() http.Header {
	return http.Header{}
}

// StatusLive is the status reported by a serving instance.
const StatusLive = "live"

// Timestamp renders as an ISO-8601 UTC time with millisecond precision.
type Timestamp time.Time

const timestampLayout = "2006-01-02T15:04:05.000Z"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(timestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	tt, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(tt)
	return nil
}

// StatusResponse collects the response values for the Status method.
type StatusResponse struct {
	Status    string    `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
}

func (r StatusResponse) StatusCode() int {
	return http.StatusOK
}

func (r StatusResponse) Headers() http.Header {
	return http.Header{}
}
