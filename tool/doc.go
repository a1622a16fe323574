// Package tool provides external tools for agents: Tavily web search and a
// page fetcher that extracts readable text from HTML.
package tool
