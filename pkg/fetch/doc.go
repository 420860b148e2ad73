// Package fetch obtains the number sequence for a birth date and time.
//
// The numbers come from an external divination site. [RodFetcher] drives a
// headless Chromium through the site's form; [HTTPFetcher] delegates to
// another mydungeon instance over its /api/numbers endpoint, for hosts
// without a browser. Decorators add optional caching ([CachedFetcher])
// and request pacing ([RateLimited]). [StaticFetcher] serves fixed
// answers for tests and offline runs.
//
// Every fetcher returns numbers in 1..60, deduplicated, in the order they
// first appear on the result page. A page that yields no numbers is not
// an error: the result is an empty slice and an error is logged.
// Navigation and network failures are returned as errors.
package fetch
