// Package memstore is an in-memory implementation of the store interfaces
// for tests that exercise services and task handlers without PostgreSQL.
//
// It enforces the same natural keys, self-reference checks and cascades as
// the migrations, and Within rolls back every write made by a failing
// function.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type phraseLink struct {
	phraseID uuid.UUID
	unitID   uuid.UUID
}

type state struct {
	users              map[uuid.UUID]domain.User
	units              map[uuid.UUID]domain.LexicalUnit
	translations       map[uuid.UUID]domain.LexicalUnitTranslation
	phrases            map[uuid.UUID]domain.Phrase
	phraseUnits        map[phraseLink]struct{}
	phraseTranslations map[uuid.UUID]domain.PhraseTranslation
}

func newState() state {
	return state{
		users:              map[uuid.UUID]domain.User{},
		units:              map[uuid.UUID]domain.LexicalUnit{},
		translations:       map[uuid.UUID]domain.LexicalUnitTranslation{},
		phrases:            map[uuid.UUID]domain.Phrase{},
		phraseUnits:        map[phraseLink]struct{}{},
		phraseTranslations: map[uuid.UUID]domain.PhraseTranslation{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.translations {
		c.translations[k] = v
	}
	for k, v := range s.phrases {
		c.phrases[k] = v
	}
	for k := range s.phraseUnits {
		c.phraseUnits[k] = struct{}{}
	}
	for k, v := range s.phraseTranslations {
		c.phraseTranslations[k] = v
	}
	return c
}

// Store holds every table in memory. The zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state

	// Fail, when set, is consulted before every operation with a name such
	// as "units.Delete". A non-nil return is the operation's error.
	Fail func(op string) error
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newState()}
}

// Repositories returns store interfaces backed by s.
func (s *Store) Repositories() store.Repositories {
	return store.Repositories{
		Users:        &userStore{s},
		Units:        &unitStore{s},
		Translations: &translationStore{s},
		Phrases:      &phraseStore{s},
	}
}

// Within implements store.UnitOfWork. Transactions are serialized; when fn
// fails, or the "uow.Commit" hook does, the state is restored to what it was
// before fn ran.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := s.check("uow.Within"); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	err := fn(ctx, s.Repositories())
	if err == nil {
		err = s.check("uow.Commit")
	}
	if err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// AllUnits returns every stored unit ordered by lemma, then part of speech.
func (s *Store) AllUnits() []*domain.LexicalUnit {
	s.mu.Lock()
	defer s.mu.Unlock()

	units := make([]*domain.LexicalUnit, 0, len(s.data.units))
	for _, u := range s.data.units {
		units = append(units, copyUnit(u))
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].Lemma != units[j].Lemma {
			return units[i].Lemma < units[j].Lemma
		}
		return units[i].PartOfSpeech < units[j].PartOfSpeech
	})
	return units
}

// AllTranslations returns every unit translation ordered by creation time.
func (s *Store) AllTranslations() []*domain.LexicalUnitTranslation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.LexicalUnitTranslation, 0, len(s.data.translations))
	for _, t := range s.data.translations {
		out = append(out, copyTranslation(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// AllPhrases returns every phrase with its linked units, ordered by text.
func (s *Store) AllPhrases() []*domain.Phrase {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Phrase, 0, len(s.data.phrases))
	for _, p := range s.data.phrases {
		out = append(out, s.phraseWithUnits(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}

// AllPhraseTranslations returns every phrase translation edge.
func (s *Store) AllPhraseTranslations() []*domain.PhraseTranslation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.PhraseTranslation, 0, len(s.data.phraseTranslations))
	for _, t := range s.data.phraseTranslations {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) check(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *Store) phraseWithUnits(p domain.Phrase) *domain.Phrase {
	out := copyPhrase(p)
	for link := range s.data.phraseUnits {
		if link.phraseID == p.ID {
			out.UnitIDs = append(out.UnitIDs, link.unitID)
		}
	}
	sort.Slice(out.UnitIDs, func(i, j int) bool { return out.UnitIDs[i].String() < out.UnitIDs[j].String() })
	return out
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
}

func copyUnit(u domain.LexicalUnit) *domain.LexicalUnit {
	if u.LastReviewed != nil {
		t := *u.LastReviewed
		u.LastReviewed = &t
	}
	return &u
}

func copyTranslation(t domain.LexicalUnitTranslation) *domain.LexicalUnitTranslation {
	if t.Confidence != nil {
		c := *t.Confidence
		t.Confidence = &c
	}
	return &t
}

func copyPhrase(p domain.Phrase) *domain.Phrase {
	if p.CEFR != nil {
		c := *p.CEFR
		p.CEFR = &c
	}
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	p.UnitIDs = nil
	return &p
}

type userStore struct{ s *Store }

func (r *userStore) Create(_ context.Context, user *domain.User) error {
	if err := r.s.check("users.Create"); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if err := r.s.check("users.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (r *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if err := r.s.check("users.GetByEmail"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

type unitStore struct{ s *Store }

// findUnit must be called with mu held.
func (r *unitStore) findUnit(key domain.UnitKey) (domain.LexicalUnit, bool) {
	for _, u := range r.s.data.units {
		if u.Key() == key {
			return u, true
		}
	}
	return domain.LexicalUnit{}, false
}

// insert must be called with mu held.
func (r *unitStore) insert(unit *domain.LexicalUnit) error {
	if _, ok := r.s.data.users[unit.UserID]; !ok {
		return invalid(fmt.Errorf("user %s does not exist", unit.UserID))
	}
	if _, ok := r.findUnit(unit.Key()); ok {
		return store.ErrUnitExists
	}
	r.s.data.units[unit.ID] = *copyUnit(*unit)
	return nil
}

func (r *unitStore) Create(_ context.Context, unit *domain.LexicalUnit) error {
	if err := r.s.check("units.Create"); err != nil {
		return err
	}
	unit.Lemma = domain.Canonicalize(unit.Lemma)
	if err := unit.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(unit)
}

func (r *unitStore) GetByID(_ context.Context, id uuid.UUID) (*domain.LexicalUnit, error) {
	if err := r.s.check("units.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok {
		return nil, store.ErrUnitNotFound
	}
	return copyUnit(u), nil
}

func (r *unitStore) GetForUser(_ context.Context, id, userID uuid.UUID) (*domain.LexicalUnit, error) {
	if err := r.s.check("units.GetForUser"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok || u.UserID != userID {
		return nil, store.ErrUnitNotFound
	}
	return copyUnit(u), nil
}

func (r *unitStore) GetOrCreate(
	_ context.Context,
	key domain.UnitKey,
	pronunciation string,
) (*domain.LexicalUnit, bool, error) {
	if err := r.s.check("units.GetOrCreate"); err != nil {
		return nil, false, err
	}
	unit, err := domain.NewLexicalUnit(key, pronunciation)
	if err != nil {
		return nil, false, invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.findUnit(unit.Key()); ok {
		return copyUnit(existing), false, nil
	}
	if err := r.insert(unit); err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

func (r *unitStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.LexicalUnit, error) {
	if err := r.s.check("units.ListByUser"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	r.s.mu.Lock()
	var units []*domain.LexicalUnit
	for _, u := range r.s.data.units {
		if u.UserID == userID {
			units = append(units, copyUnit(u))
		}
	}
	r.s.mu.Unlock()

	sort.Slice(units, func(i, j int) bool {
		if !units[i].DateAdded.Equal(units[j].DateAdded) {
			return units[i].DateAdded.After(units[j].DateAdded)
		}
		return units[i].ID.String() < units[j].ID.String()
	})
	if offset >= len(units) {
		return nil, nil
	}
	units = units[offset:]
	if len(units) > limit {
		units = units[:limit]
	}
	return units, nil
}

func (r *unitStore) PartsOfSpeech(
	_ context.Context,
	userID uuid.UUID,
	lemma, language string,
) ([]domain.PartOfSpeech, error) {
	if err := r.s.check("units.PartsOfSpeech"); err != nil {
		return nil, err
	}
	lemma = domain.Canonicalize(lemma)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[domain.PartOfSpeech]struct{}{}
	var parts []domain.PartOfSpeech
	for _, u := range r.s.data.units {
		if u.UserID != userID || u.Lemma != lemma || u.Language != language {
			continue
		}
		if _, ok := seen[u.PartOfSpeech]; ok {
			continue
		}
		seen[u.PartOfSpeech] = struct{}{}
		parts = append(parts, u.PartOfSpeech)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })
	return parts, nil
}

func (r *unitStore) Lemmas(_ context.Context, userID uuid.UUID) ([]string, error) {
	if err := r.s.check("units.Lemmas"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[string]struct{}{}
	var lemmas []string
	for _, u := range r.s.data.units {
		if u.UserID != userID {
			continue
		}
		if _, ok := seen[u.Lemma]; ok {
			continue
		}
		seen[u.Lemma] = struct{}{}
		lemmas = append(lemmas, u.Lemma)
	}
	sort.Strings(lemmas)
	return lemmas, nil
}

func (r *unitStore) Update(_ context.Context, unit *domain.LexicalUnit) error {
	if err := r.s.check("units.Update"); err != nil {
		return err
	}
	unit.Lemma = domain.Canonicalize(unit.Lemma)
	if err := unit.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.units[unit.ID]; !ok {
		return store.ErrUnitNotFound
	}
	if other, ok := r.findUnit(unit.Key()); ok && other.ID != unit.ID {
		return store.ErrUnitExists
	}
	unit.UpdatedAt = time.Now().UTC()
	r.s.data.units[unit.ID] = *copyUnit(*unit)
	return nil
}

func (r *unitStore) UpdateValidation(
	_ context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
) error {
	if err := r.s.check("units.UpdateValidation"); err != nil {
		return err
	}
	if !status.IsValid() {
		return invalid(domain.ErrInvalidValidation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok {
		return store.ErrUnitNotFound
	}
	u.SetValidation(status, notes)
	r.s.data.units[id] = u
	return nil
}

func (r *unitStore) UpdatePronunciation(_ context.Context, id uuid.UUID, pronunciation string) error {
	if err := r.s.check("units.UpdatePronunciation"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok {
		return store.ErrUnitNotFound
	}
	u.Pronunciation = pronunciation
	u.UpdatedAt = time.Now().UTC()
	r.s.data.units[id] = u
	return nil
}

func (r *unitStore) HasLinks(_ context.Context, id uuid.UUID) (bool, error) {
	if err := r.s.check("units.HasLinks"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.translations {
		if t.SourceUnitID == id || t.TargetUnitID == id {
			return true, nil
		}
	}
	for link := range r.s.data.phraseUnits {
		if link.unitID == id {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the unit along with its translations and phrase links.
func (r *unitStore) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.s.check("units.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.units[id]; !ok {
		return store.ErrUnitNotFound
	}
	delete(r.s.data.units, id)
	for tid, t := range r.s.data.translations {
		if t.SourceUnitID == id || t.TargetUnitID == id {
			delete(r.s.data.translations, tid)
		}
	}
	for link := range r.s.data.phraseUnits {
		if link.unitID == id {
			delete(r.s.data.phraseUnits, link)
		}
	}
	return nil
}

type translationStore struct{ s *Store }

// insert must be called with mu held.
func (r *translationStore) insert(t *domain.LexicalUnitTranslation) error {
	if _, ok := r.s.data.units[t.SourceUnitID]; !ok {
		return invalid(fmt.Errorf("source unit %s does not exist", t.SourceUnitID))
	}
	if _, ok := r.s.data.units[t.TargetUnitID]; !ok {
		return invalid(fmt.Errorf("target unit %s does not exist", t.TargetUnitID))
	}
	if _, ok := r.find(t.SourceUnitID, t.TargetUnitID); ok {
		return store.ErrTranslationExists
	}
	r.s.data.translations[t.ID] = *copyTranslation(*t)
	return nil
}

// find must be called with mu held.
func (r *translationStore) find(sourceID, targetID uuid.UUID) (domain.LexicalUnitTranslation, bool) {
	for _, t := range r.s.data.translations {
		if t.SourceUnitID == sourceID && t.TargetUnitID == targetID {
			return t, true
		}
	}
	return domain.LexicalUnitTranslation{}, false
}

func (r *translationStore) Create(_ context.Context, t *domain.LexicalUnitTranslation) error {
	if err := r.s.check("translations.Create"); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(t)
}

func (r *translationStore) GetOrCreate(
	_ context.Context,
	sourceID, targetID uuid.UUID,
	translationType domain.TranslationType,
) (*domain.LexicalUnitTranslation, bool, error) {
	if err := r.s.check("translations.GetOrCreate"); err != nil {
		return nil, false, err
	}
	if translationType == "" {
		translationType = domain.TranslationManual
	}
	now := time.Now().UTC()
	t := &domain.LexicalUnitTranslation{
		ID:           uuid.New(),
		SourceUnitID: sourceID,
		TargetUnitID: targetID,
		Type:         translationType,
		Validation:   domain.ValidationUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.Validate(); err != nil {
		return nil, false, invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.find(sourceID, targetID); ok {
		return copyTranslation(existing), false, nil
	}
	if err := r.insert(t); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (r *translationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.LexicalUnitTranslation, error) {
	if err := r.s.check("translations.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.translations[id]
	if !ok {
		return nil, store.ErrTranslationNotFound
	}
	return copyTranslation(t), nil
}

func (r *translationStore) GetWithUnits(_ context.Context, id uuid.UUID) (*domain.TranslationWithUnits, error) {
	if err := r.s.check("translations.GetWithUnits"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.translations[id]
	if !ok {
		return nil, store.ErrTranslationNotFound
	}
	source, ok := r.s.data.units[t.SourceUnitID]
	if !ok {
		return nil, fmt.Errorf("loading source unit: %w", store.ErrUnitNotFound)
	}
	target, ok := r.s.data.units[t.TargetUnitID]
	if !ok {
		return nil, fmt.Errorf("loading target unit: %w", store.ErrUnitNotFound)
	}
	return &domain.TranslationWithUnits{
		Translation: copyTranslation(t),
		Source:      copyUnit(source),
		Target:      copyUnit(target),
	}, nil
}

func (r *translationStore) ListBySource(_ context.Context, sourceID uuid.UUID) ([]*domain.LexicalUnitTranslation, error) {
	if err := r.s.check("translations.ListBySource"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.LexicalUnitTranslation
	for _, t := range r.s.data.translations {
		if t.SourceUnitID == sourceID {
			out = append(out, copyTranslation(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *translationStore) UpdateVerification(
	_ context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
	confidence float64,
) error {
	if err := r.s.check("translations.UpdateVerification"); err != nil {
		return err
	}
	if !status.IsValid() {
		return invalid(domain.ErrInvalidValidation)
	}
	if confidence < 0 || confidence > 1 {
		return invalid(domain.ErrInvalidConfidence)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.translations[id]
	if !ok {
		return store.ErrTranslationNotFound
	}
	t.SetVerification(status, notes, confidence)
	r.s.data.translations[id] = t
	return nil
}

type phraseStore struct{ s *Store }

// find must be called with mu held.
func (r *phraseStore) find(text, language string) (domain.Phrase, bool) {
	for _, p := range r.s.data.phrases {
		if p.Text == text && p.Language == language {
			return p, true
		}
	}
	return domain.Phrase{}, false
}

func (r *phraseStore) Create(_ context.Context, phrase *domain.Phrase) error {
	if err := r.s.check("phrases.Create"); err != nil {
		return err
	}
	if err := phrase.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.find(phrase.Text, phrase.Language); ok {
		return store.ErrPhraseExists
	}
	r.s.data.phrases[phrase.ID] = *copyPhrase(*phrase)
	return nil
}

func (r *phraseStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Phrase, error) {
	if err := r.s.check("phrases.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.phrases[id]
	if !ok {
		return nil, store.ErrPhraseNotFound
	}
	return r.s.phraseWithUnits(p), nil
}

func (r *phraseStore) GetOrCreate(
	_ context.Context,
	text, language string,
	cefr *domain.CEFRLevel,
) (*domain.Phrase, bool, error) {
	if err := r.s.check("phrases.GetOrCreate"); err != nil {
		return nil, false, err
	}
	phrase, err := domain.NewPhrase(text, language, cefr, nil)
	if err != nil {
		return nil, false, invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.find(phrase.Text, phrase.Language); ok {
		return copyPhrase(existing), false, nil
	}
	r.s.data.phrases[phrase.ID] = *copyPhrase(*phrase)
	return phrase, true, nil
}

func (r *phraseStore) UpdateEnrichment(_ context.Context, phrase *domain.Phrase) error {
	if err := r.s.check("phrases.UpdateEnrichment"); err != nil {
		return err
	}
	if err := phrase.Validate(); err != nil {
		return invalid(err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.phrases[phrase.ID]
	if !ok {
		return store.ErrPhraseNotFound
	}
	phrase.UpdatedAt = time.Now().UTC()
	p.CEFR = phrase.CEFR
	p.Category = phrase.Category
	p.Validation = phrase.Validation
	p.ValidationNotes = phrase.ValidationNotes
	p.UpdatedAt = phrase.UpdatedAt
	r.s.data.phrases[p.ID] = *copyPhrase(p)
	return nil
}

func (r *phraseStore) UpdateValidation(
	_ context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
) error {
	if err := r.s.check("phrases.UpdateValidation"); err != nil {
		return err
	}
	if !status.IsValid() {
		return invalid(domain.ErrInvalidValidation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.phrases[id]
	if !ok {
		return store.ErrPhraseNotFound
	}
	p.Validation = status
	p.ValidationNotes = notes
	p.UpdatedAt = time.Now().UTC()
	r.s.data.phrases[id] = p
	return nil
}

func (r *phraseStore) LinkUnit(_ context.Context, phraseID, unitID uuid.UUID) error {
	if err := r.s.check("phrases.LinkUnit"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.phrases[phraseID]; !ok {
		return invalid(fmt.Errorf("phrase %s does not exist", phraseID))
	}
	if _, ok := r.s.data.units[unitID]; !ok {
		return invalid(fmt.Errorf("unit %s does not exist", unitID))
	}
	r.s.data.phraseUnits[phraseLink{phraseID: phraseID, unitID: unitID}] = struct{}{}
	return nil
}

func (r *phraseStore) GetOrCreateTranslation(
	_ context.Context,
	sourceID, targetID uuid.UUID,
) (*domain.PhraseTranslation, bool, error) {
	if err := r.s.check("phrases.GetOrCreateTranslation"); err != nil {
		return nil, false, err
	}
	if sourceID == targetID {
		return nil, false, invalid(domain.ErrSelfPhraseTranslate)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.phraseTranslations {
		if t.SourcePhraseID == sourceID && t.TargetPhraseID == targetID {
			return &t, false, nil
		}
	}
	t := &domain.PhraseTranslation{
		ID:             uuid.New(),
		SourcePhraseID: sourceID,
		TargetPhraseID: targetID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.insertTranslation(t); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (r *phraseStore) CreateTranslation(_ context.Context, t *domain.PhraseTranslation) error {
	if err := r.s.check("phrases.CreateTranslation"); err != nil {
		return err
	}
	if t.SourcePhraseID == t.TargetPhraseID {
		return invalid(domain.ErrSelfPhraseTranslate)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.phraseTranslations {
		if existing.SourcePhraseID == t.SourcePhraseID && existing.TargetPhraseID == t.TargetPhraseID {
			return store.ErrPhraseExists
		}
	}
	return r.insertTranslation(t)
}

// insertTranslation must be called with mu held.
func (r *phraseStore) insertTranslation(t *domain.PhraseTranslation) error {
	if _, ok := r.s.data.phrases[t.SourcePhraseID]; !ok {
		return invalid(fmt.Errorf("source phrase %s does not exist", t.SourcePhraseID))
	}
	if _, ok := r.s.data.phrases[t.TargetPhraseID]; !ok {
		return invalid(fmt.Errorf("target phrase %s does not exist", t.TargetPhraseID))
	}
	r.s.data.phraseTranslations[t.ID] = *t
	return nil
}

var (
	_ store.UnitOfWork       = (*Store)(nil)
	_ store.UserStore        = (*userStore)(nil)
	_ store.LexicalUnitStore = (*unitStore)(nil)
	_ store.TranslationStore = (*translationStore)(nil)
	_ store.PhraseStore      = (*phraseStore)(nil)
)
