package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseService_Create(t *testing.T) {
	t.Parallel()

	t.Run("links units and schedules enrichment", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rain := f.newUnit(t, f.user, "rain", "en", domain.POSNoun)
		level := domain.CEFRA2

		phrase, err := f.phrases.Create(context.Background(), f.user.ID, service.PhraseInput{
			Text:     " It is raining. ",
			Language: "en",
			CEFR:     &level,
			UnitIDs:  []uuid.UUID{rain.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, "It is raining.", phrase.Text)
		assert.Equal(t, []uuid.UUID{rain.ID}, phrase.UnitIDs)

		scheduled := f.scheduler.OfType(task.TypeEnrichPhrase)
		require.Len(t, scheduled, 1)
		assert.Equal(t, task.PhrasePayload{PhraseID: phrase.ID}, scheduled[0].Payload)
	})

	t.Run("same text and language is a conflict", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		in := service.PhraseInput{Text: "See you later.", Language: "en"}

		_, err := f.phrases.Create(context.Background(), f.user.ID, in)
		require.NoError(t, err)

		_, err = f.phrases.Create(context.Background(), f.user.ID, in)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.Equal(t, "A phrase with this text and language already exists.", userMessage(t, err))
		assert.Len(t, f.store.AllPhrases(), 1)
		assert.Len(t, f.scheduler.OfType(task.TypeEnrichPhrase), 1)

		in.Language = "fr"
		_, err = f.phrases.Create(context.Background(), f.user.ID, in)
		assert.NoError(t, err)
	})

	t.Run("unit of another user rolls back", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		other := f.newUser(t, "other@example.com")
		unit := f.newUnit(t, other, "rain", "en", domain.POSNoun)

		_, err := f.phrases.Create(context.Background(), f.user.ID, service.PhraseInput{
			Text:     "It is raining.",
			Language: "en",
			UnitIDs:  []uuid.UUID{unit.ID},
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Empty(t, f.store.AllPhrases())
		assert.Empty(t, f.scheduler.Scheduled())
	})

	t.Run("rejects empty text", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.phrases.Create(context.Background(), f.user.ID, service.PhraseInput{Text: "   ", Language: "en"})
		assert.ErrorIs(t, err, domain.ErrEmptyPhraseText)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPhraseService_CreateTranslation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	hello := f.newPhrase(t, "Hello.", "en")
	hola := f.newPhrase(t, "Hola.", "es")
	hi := f.newPhrase(t, "Hi.", "en-US")

	link, err := f.phrases.CreateTranslation(ctx, hello.ID, hola.ID)
	require.NoError(t, err)
	assert.Equal(t, hello.ID, link.SourcePhraseID)

	_, err = f.phrases.CreateTranslation(ctx, hello.ID, hola.ID)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = f.phrases.CreateTranslation(ctx, hello.ID, hello.ID)
	assert.Equal(t, "A phrase cannot translate to itself.", userMessage(t, err))

	_, err = f.phrases.CreateTranslation(ctx, hello.ID, hi.ID)
	assert.Equal(t, "Source and target phrases must be in different languages.", userMessage(t, err))

	_, err = f.phrases.CreateTranslation(ctx, hello.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Len(t, f.store.AllPhraseTranslations(), 1)
}
