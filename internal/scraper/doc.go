// Package scraper fetches and parses the fan-club site's monthly listing
// pages and per-event detail pages.
//
// Two listing streams share one parser entry point: the media/schedule
// listing (day groups with per-event time text) and the news listing
// (dated articles). Every fetched page is followed by a fixed politeness
// pause, and the embedded page year/month is checked against the request
// before anything is extracted.
package scraper
