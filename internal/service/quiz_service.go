package service

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/platform/logger"
	"github.com/cramhq/cram-api/internal/store"
)

// choiceCount is the number of options per multiple-choice question,
// the correct answer included.
const choiceCount = 4

// Verdict grades a typed answer against the card's back side.
type Verdict string

// Possible verdicts. A close answer counts as correct for scoring but is
// surfaced to the user so they can see the exact expected text.
const (
	VerdictCorrect Verdict = "correct"
	VerdictClose   Verdict = "close"
	VerdictWrong   Verdict = "wrong"
)

// Question is one multiple-choice quiz question: a card front with the
// correct back shuffled among distractor backs drawn from the same deck.
type Question struct {
	CardID  uuid.UUID `json:"card_id"`
	Prompt  string    `json:"prompt"`
	Choices []string  `json:"choices"`

	// CorrectIndex is the position of the correct answer within Choices.
	// Never serialized to clients.
	CorrectIndex int `json:"-"`
}

// QuizService generates multiple-choice quizzes from decks and grades
// typed answers.
type QuizService interface {
	// GenerateQuiz builds up to limit questions from a deck the user owns.
	// Distractors are backs of other cards in the same deck; decks with a
	// single card cannot produce a quiz.
	GenerateQuiz(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]Question, error)

	// GradeAnswer grades a typed answer against a card's back side.
	GradeAnswer(ctx context.Context, userID, cardID uuid.UUID, answer string) (Verdict, error)
}

// quizServiceImpl implements the QuizService interface.
type quizServiceImpl struct {
	decks  store.DeckStore
	cards  store.CardStore
	logger *slog.Logger

	// rng is seeded once at construction; tests inject a fixed seed for
	// reproducible shuffles. rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizService creates a new QuizService seeded from the given source.
// Panics if any required dependency is nil.
func NewQuizService(
	decks store.DeckStore,
	cards store.CardStore,
	rng *rand.Rand,
	log *slog.Logger,
) QuizService {
	if decks == nil || cards == nil {
		panic("stores cannot be nil")
	}
	if rng == nil {
		panic("rng cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &quizServiceImpl{
		decks:  decks,
		cards:  cards,
		rng:    rng,
		logger: log.With(slog.String("component", "quiz_service")),
	}
}

// GenerateQuiz implements QuizService.GenerateQuiz.
func (s *quizServiceImpl) GenerateQuiz(
	ctx context.Context,
	userID, deckID uuid.UUID,
	limit int,
) ([]Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotOwned
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(cards) < 2 {
		return nil, ErrDeckEmpty
	}

	if limit <= 0 || limit > len(cards) {
		limit = len(cards)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Pick the quizzed cards in random order.
	order := s.rng.Perm(len(cards))[:limit]

	questions := make([]Question, 0, limit)
	for _, idx := range order {
		questions = append(questions, s.buildQuestion(cards, idx))
	}

	log.Debug("quiz generated",
		slog.String("deck_id", deckID.String()),
		slog.Int("questions", len(questions)))

	return questions, nil
}

// buildQuestion assembles one question for cards[idx], drawing distractor
// backs from the other cards of the deck. Duplicate backs are skipped so
// a question never shows the same text twice. Caller holds s.mu.
func (s *quizServiceImpl) buildQuestion(cards []*domain.Card, idx int) Question {
	target := cards[idx]

	seen := map[string]bool{normalizeAnswer(target.Back): true}
	choices := []string{target.Back}

	for _, j := range s.rng.Perm(len(cards)) {
		if len(choices) == choiceCount {
			break
		}
		if j == idx {
			continue
		}
		back := cards[j].Back
		if seen[normalizeAnswer(back)] {
			continue
		}
		seen[normalizeAnswer(back)] = true
		choices = append(choices, back)
	}

	s.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	correct := 0
	for i, choice := range choices {
		if choice == target.Back {
			correct = i
			break
		}
	}

	return Question{
		CardID:       target.ID,
		Prompt:       target.Front,
		Choices:      choices,
		CorrectIndex: correct,
	}
}

// GradeAnswer implements QuizService.GradeAnswer.
func (s *quizServiceImpl) GradeAnswer(
	ctx context.Context,
	userID, cardID uuid.UUID,
	answer string,
) (Verdict, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return "", err
	}
	if card.UserID != userID {
		return "", ErrNotOwned
	}

	return gradeAnswer(card.Back, answer), nil
}

// gradeAnswer compares a typed answer to the expected text. Comparison is
// case-insensitive with whitespace collapsed; small typos grade as close
// rather than wrong.
func gradeAnswer(expected, answer string) Verdict {
	want := normalizeAnswer(expected)
	got := normalizeAnswer(answer)

	if got == want {
		return VerdictCorrect
	}

	if levenshtein.ComputeDistance(got, want) <= closeThreshold(want) {
		return VerdictClose
	}

	return VerdictWrong
}

// closeThreshold returns the edit distance still graded as close: one
// typo for short answers, scaling to one per five characters.
func closeThreshold(normalized string) int {
	threshold := len([]rune(normalized)) / 5
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// normalizeAnswer lowercases the text and collapses runs of whitespace to
// single spaces.
func normalizeAnswer(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
