// Package techdocs ingests external documentation sites. It crawls a link
// graph starting from a seed page, normalizes and converts each page into
// structured, searchable snippets, and tracks the lifecycle of every
// discovered resource so that partial failures, duplicate discovery, and
// user-initiated cancellation never corrupt progress or duplicate work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, gemini/); crawl
// orchestration lives in crawl/.
package techdocs
