// Package gemini implements generation.Transport on top of Google's Gemini
// API using the google.golang.org/genai client.
//
// System messages become the system instruction, user messages become the
// request contents, and a response schema is converted to a genai.Schema and
// sent with the application/json response MIME type. Responses stopped by
// the safety filters are reported as generation.ErrContentBlocked.
package gemini
