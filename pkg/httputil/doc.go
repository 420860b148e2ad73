// Package httputil provides retry helpers for outbound HTTP calls.
//
// [Retry] re-runs an operation with exponential backoff, but only for
// errors wrapped in [RetryableError]. [CheckResponse] classifies HTTP
// responses: 429 and 5xx become retryable, other non-2xx statuses fail
// immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if err := httputil.CheckResponse(resp); err != nil {
//	        return err
//	    }
//	    return json.NewDecoder(resp.Body).Decode(&out)
//	})
//
// Defaults are three attempts starting at one second.
package httputil
