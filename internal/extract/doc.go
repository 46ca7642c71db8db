// Package extract finds candidate vocabulary lemmas in free text.
//
// Japanese text is segmented locally with kagome's IPA dictionary, which
// yields dictionary forms without a model call. Every other language goes
// to the language model. Router picks between the two per request.
package extract
