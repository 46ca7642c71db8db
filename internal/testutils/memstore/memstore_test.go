package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store) *domain.User {
	t.Helper()
	user, err := domain.NewUser("reader@example.com")
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Users.Create(context.Background(), user))
	return user
}

func TestUnits_GetOrCreateConvergesOnNaturalKey(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	ctx := context.Background()
	units := s.Repositories().Units

	key := domain.UnitKey{UserID: user.ID, Lemma: "  Record ", Language: "en", PartOfSpeech: domain.POSNoun}
	first, created, err := units.GetOrCreate(ctx, key, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "record", first.Lemma)

	key.Lemma = "record"
	second, created, err := units.GetOrCreate(ctx, key, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestUnits_RequireExistingOwner(t *testing.T) {
	t.Parallel()

	s := New()
	key := domain.UnitKey{UserID: uuid.New(), Lemma: "record", Language: "en"}
	_, _, err := s.Repositories().Units.GetOrCreate(context.Background(), key, "")
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Empty(t, s.AllUnits())
}

func TestUnits_DeleteCascadesLinks(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	ctx := context.Background()
	repos := s.Repositories()

	source, _, err := repos.Units.GetOrCreate(ctx,
		domain.UnitKey{UserID: user.ID, Lemma: "house", Language: "en", PartOfSpeech: domain.POSNoun}, "")
	require.NoError(t, err)
	target, _, err := repos.Units.GetOrCreate(ctx,
		domain.UnitKey{UserID: user.ID, Lemma: "casa", Language: "es", PartOfSpeech: domain.POSNoun}, "")
	require.NoError(t, err)
	_, created, err := repos.Translations.GetOrCreate(ctx, source.ID, target.ID, domain.TranslationManual)
	require.NoError(t, err)
	require.True(t, created)

	phrase, _, err := repos.Phrases.GetOrCreate(ctx, "The house is big.", "en", nil)
	require.NoError(t, err)
	require.NoError(t, repos.Phrases.LinkUnit(ctx, phrase.ID, source.ID))

	linked, err := repos.Units.HasLinks(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	require.NoError(t, repos.Units.Delete(ctx, source.ID))
	assert.Empty(t, s.AllTranslations())

	got, err := repos.Phrases.GetByID(ctx, phrase.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UnitIDs)

	_, err = repos.Units.GetByID(ctx, source.ID)
	assert.ErrorIs(t, err, store.ErrUnitNotFound)
}

func TestTranslations_RejectSelfReference(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	ctx := context.Background()
	repos := s.Repositories()

	unit, _, err := repos.Units.GetOrCreate(ctx,
		domain.UnitKey{UserID: user.ID, Lemma: "run", Language: "en", PartOfSpeech: domain.POSVerb}, "")
	require.NoError(t, err)

	_, _, err = repos.Translations.GetOrCreate(ctx, unit.ID, unit.ID, domain.TranslationAI)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	phrase, _, err := repos.Phrases.GetOrCreate(ctx, "Run!", "en", nil)
	require.NoError(t, err)
	_, _, err = repos.Phrases.GetOrCreateTranslation(ctx, phrase.ID, phrase.ID)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestWithin_RollsBackOnError(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
		_, _, err := repos.Units.GetOrCreate(ctx,
			domain.UnitKey{UserID: user.ID, Lemma: "record", Language: "en", PartOfSpeech: domain.POSNoun}, "")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.AllUnits())

	err = s.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
		_, _, err := repos.Units.GetOrCreate(ctx,
			domain.UnitKey{UserID: user.ID, Lemma: "record", Language: "en", PartOfSpeech: domain.POSVerb}, "")
		return err
	})
	require.NoError(t, err)
	assert.Len(t, s.AllUnits(), 1)
}

func TestFailHook(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	boom := errors.New("disk full")
	s.Fail = func(op string) error {
		if op == "units.Delete" {
			return boom
		}
		return nil
	}

	unit, _, err := s.Repositories().Units.GetOrCreate(context.Background(),
		domain.UnitKey{UserID: user.ID, Lemma: "record", Language: "en"}, "")
	require.NoError(t, err)
	assert.True(t, unit.IsStub())

	err = s.Repositories().Units.Delete(context.Background(), unit.ID)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.AllUnits(), 1)
}

func TestWithin_CommitFailureRollsBack(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	boom := errors.New("serialization failure")
	s.Fail = func(op string) error {
		if op == "uow.Commit" {
			return boom
		}
		return nil
	}

	err := s.Within(context.Background(), func(ctx context.Context, repos store.Repositories) error {
		_, _, err := repos.Units.GetOrCreate(ctx,
			domain.UnitKey{UserID: user.ID, Lemma: "record", Language: "en", PartOfSpeech: domain.POSNoun}, "")
		return err
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.AllUnits())
}

func TestPhrases_UpdateEnrichmentKeepsLinks(t *testing.T) {
	t.Parallel()

	s := New()
	user := seedUser(t, s)
	ctx := context.Background()
	repos := s.Repositories()

	unit, _, err := repos.Units.GetOrCreate(ctx,
		domain.UnitKey{UserID: user.ID, Lemma: "rain", Language: "en", PartOfSpeech: domain.POSNoun}, "")
	require.NoError(t, err)
	level := domain.CEFRA1
	phrase, created, err := repos.Phrases.GetOrCreate(ctx, " It is raining. ", "en", &level)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "It is raining.", phrase.Text)
	require.NoError(t, repos.Phrases.LinkUnit(ctx, phrase.ID, unit.ID))

	category := domain.PhraseGeneral
	phrase.Category = &category
	phrase.Validation = domain.ValidationValid
	require.NoError(t, repos.Phrases.UpdateEnrichment(ctx, phrase))

	got, err := repos.Phrases.GetByID(ctx, phrase.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, domain.PhraseGeneral, *got.Category)
	assert.Equal(t, domain.ValidationValid, got.Validation)
	assert.Len(t, got.UnitIDs, 1)
}
