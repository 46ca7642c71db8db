// Package openai implements generation.Transport for OpenAI-compatible chat
// completion endpoints. The default endpoint is Nebius AI Studio, which
// accepts a guided_json constraint; endpoints that only understand
// response_format can be selected with SchemaModeResponseFormat.
package openai
