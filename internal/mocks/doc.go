// Package mocks provides shared test doubles for the interfaces the
// services, task handlers and API depend on.
//
// Each mock exposes a function field per method. When the field is nil the
// mock falls back to its default values, so tests only set what they
// exercise:
//
//	linguist := &mocks.MockLinguist{
//	    LemmaDetailsFn: func(ctx context.Context, lemma, language string) ([]generation.LemmaDetail, error) {
//	        return []generation.LemmaDetail{{PartOfSpeech: domain.POSNoun}}, nil
//	    },
//	}
//
// Mocks that record calls guard their records with a mutex, since tasks
// run on worker goroutines.
package mocks
