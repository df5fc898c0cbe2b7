// Package http provides the request and response model for a single HTTP
// probe, plus the executor that performs the round trip.
//
// A Request is validated at construction and describes one outbound call:
// method, URL, headers, optional body, timeout, and TLS verification. The
// Client executes exactly one blocking round trip per Do call and maps
// every transport outcome (timeout, DNS failure, refused connection,
// certificate error) into a Response rather than an error, so callers can
// treat failed probes as data. Only a malformed Request surfaces as an
// error, before any network activity.
//
// Basic usage:
//
//	req, err := http.NewRequest("GET", "https://api.example.com/health")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.WithHeader("Accept", "application/json").
//	    WithTimeout(5 * time.Second)
//
//	resp, err := http.NewClient().Do(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("status=%d success=%v in %v\n", resp.StatusCode, resp.Success(), resp.Duration)
package http
