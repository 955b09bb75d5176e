// Package firecrawl provides a ContentSource implementation backed by
// the Firecrawl scraping API. Single pages are fetched with the
// synchronous scrape endpoint; full sites start an asynchronous crawl
// job that is polled at a throttled rate until it completes.
package firecrawl
