// Package generation is the boundary between the application and external
// LLM services. It renders prompt templates, sends them through a Transport
// (OpenAI-compatible or Gemini, see internal/platform), and decodes the raw
// completion text into strictly validated response types.
//
// The Gateway performs exactly one round-trip per call. Retries belong to the
// task layer, so transport errors are returned to the caller unchanged.
package generation
