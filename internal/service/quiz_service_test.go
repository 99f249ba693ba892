package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/store"
)

func newQuizFixture(t *testing.T, seed int64) (*quizServiceImpl, *fakeDeckStore, *fakeCardStore, uuid.UUID) {
	t.Helper()

	decks := newFakeDeckStore()
	cards := newFakeCardStore()
	svc := NewQuizService(decks, cards, rand.New(rand.NewSource(seed)), nil).(*quizServiceImpl)
	return svc, decks, cards, uuid.New()
}

func TestGenerateQuizShape(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 42)
	deck, seeded := seedDeck(decks, cards, userID, 6)

	questions, err := svc.GenerateQuiz(context.Background(), userID, deck.ID, 4)
	require.NoError(t, err)
	require.Len(t, questions, 4)

	backs := make(map[uuid.UUID]string, len(seeded))
	for _, card := range seeded {
		backs[card.ID] = card.Back
	}

	for _, q := range questions {
		assert.Len(t, q.Choices, choiceCount)
		require.GreaterOrEqual(t, q.CorrectIndex, 0)
		require.Less(t, q.CorrectIndex, len(q.Choices))
		assert.Equal(t, backs[q.CardID], q.Choices[q.CorrectIndex],
			"the correct index must point at the card's own back")

		// No duplicate choices within a question.
		seen := make(map[string]bool)
		for _, choice := range q.Choices {
			assert.False(t, seen[choice], "duplicate choice %q", choice)
			seen[choice] = true
		}
	}
}

func TestGenerateQuizDeterministicForSeed(t *testing.T) {
	t.Parallel()

	run := func() []Question {
		svc, decks, cards, userID := newQuizFixture(t, 7)
		// Seed identical content; UUIDs differ between runs, so compare
		// prompts and choices only.
		deck, _ := seedDeck(decks, cards, userID, 5)
		questions, err := svc.GenerateQuiz(context.Background(), userID, deck.ID, 5)
		require.NoError(t, err)
		return questions
	}

	first := run()
	second := run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Prompt, second[i].Prompt)
		assert.Equal(t, first[i].Choices, second[i].Choices)
	}
}

func TestGenerateQuizSmallDeckFewerChoices(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 1)
	deck, _ := seedDeck(decks, cards, userID, 2)

	questions, err := svc.GenerateQuiz(context.Background(), userID, deck.ID, 0)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.Len(t, q.Choices, 2, "a two-card deck yields two choices")
	}
}

func TestGenerateQuizRejectsSingleCardDeck(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 1)
	deck, _ := seedDeck(decks, cards, userID, 1)

	_, err := svc.GenerateQuiz(context.Background(), userID, deck.ID, 4)
	assert.ErrorIs(t, err, ErrDeckEmpty)
}

func TestGenerateQuizRejectsForeignDeck(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 1)
	deck, _ := seedDeck(decks, cards, uuid.New(), 3)

	_, err := svc.GenerateQuiz(context.Background(), userID, deck.ID, 2)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestGradeAnswer(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 1)
	_, seeded := seedDeck(decks, cards, userID, 1)
	cardID := seeded[0].ID // back is "back a"

	tests := []struct {
		name   string
		answer string
		want   Verdict
	}{
		{"exact", "back a", VerdictCorrect},
		{"case and spacing ignored", "  Back   A ", VerdictCorrect},
		{"one typo is close", "back b", VerdictClose},
		{"unrelated is wrong", "completely different", VerdictWrong},
		{"empty is wrong", "", VerdictWrong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := svc.GradeAnswer(context.Background(), userID, cardID, tc.answer)
			require.NoError(t, err)
			assert.Equal(t, tc.want, verdict)
		})
	}
}

func TestGradeAnswerThresholdScalesWithLength(t *testing.T) {
	t.Parallel()

	// Ten characters allow two edits.
	assert.Equal(t, VerdictClose, gradeAnswer("abcdefghij", "abcdefghxx"))
	assert.Equal(t, VerdictWrong, gradeAnswer("abcdefghij", "abcdefgxxx"))

	// Short answers allow exactly one.
	assert.Equal(t, VerdictClose, gradeAnswer("cat", "cap"))
	assert.Equal(t, VerdictWrong, gradeAnswer("cat", "dog"))
}

func TestGradeAnswerRejectsForeignCard(t *testing.T) {
	t.Parallel()

	svc, decks, cards, userID := newQuizFixture(t, 1)
	_, seeded := seedDeck(decks, cards, uuid.New(), 1)

	_, err := svc.GradeAnswer(context.Background(), userID, seeded[0].ID, "x")
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestGradeAnswerUnknownCard(t *testing.T) {
	t.Parallel()

	svc, _, _, userID := newQuizFixture(t, 1)
	_, err := svc.GradeAnswer(context.Background(), userID, uuid.New(), "x")
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}
