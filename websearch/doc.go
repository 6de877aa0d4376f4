// Package websearch answers general-knowledge questions from the open web.
//
// Providers return payloads of varying shape. Parse resolves a payload once
// into a Result whose Kind records which shape was found:
//
//   - DirectAnswer: the payload carried a non-empty "answer" field
//   - ResultList: no answer, but a "results" list whose first entry has
//     string "content"
//   - RawText: anything else, including bare strings and malformed
//     payloads, stringified as-is
//
// Tavily talks to the Tavily Search API directly. DuckDuckGo wraps the
// langchaingo DuckDuckGo tool, which yields plain text.
package websearch
