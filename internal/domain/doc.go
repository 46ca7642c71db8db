// Package domain contains the core vocabulary entities (lexical units,
// translations, phrases and users), their enumerations and validation rules.
// It has no knowledge of storage, transport or the LLM.
package domain
