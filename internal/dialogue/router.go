package dialogue

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/knowledge"
	"github.com/agrisense-ai/agribot/internal/observability"
	"github.com/agrisense-ai/agribot/internal/session"
	"github.com/agrisense-ai/agribot/internal/textutil"
	"github.com/agrisense-ai/agribot/internal/weather"
)

// greetings are the fixed reply templates for greeting messages; one is
// picked uniformly at random.
var greetings = []string{
	"Hello! I'm your Agriculture Assistant. How can I help you with farming today?",
	"Hi there! I'm here to help with all your agriculture and farming questions.",
	"Welcome! Ask me anything about crops, cultivation, pests, or farming techniques.",
}

// FarewellMessage is the fixed reply for farewell messages.
const FarewellMessage = "Thank you for using Agriculture Assistant! Happy farming! 🌱"

// WeatherApology is returned when the live weather feed cannot be read.
const WeatherApology = "Sorry, I couldn't fetch the live weather data from ThingSpeak right now. Please try again later."

var greetingPhrases = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

var farewellPhrases = []string{"bye", "goodbye", "see you", "thanks", "thank you", "exit", "quit"}

// Bot is the query routing pipeline and the core public entry point.
type Bot struct {
	logger   *observability.Logger
	store    *knowledge.Store
	weather  *weather.Client
	gen      *generation.Client
	sessions *session.Store
	pick     func(n int) int
}

// Deps holds the Bot's collaborators. Pick selects the greeting index and
// defaults to math/rand; tests inject a fixed one.
type Deps struct {
	Store    *knowledge.Store
	Weather  *weather.Client
	Gen      *generation.Client
	Sessions *session.Store
	Pick     func(n int) int
}

// NewBot wires the pipeline.
func NewBot(logger *observability.Logger, deps Deps) *Bot {
	pick := deps.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &Bot{
		logger:   logger.WithComponent("dialogue"),
		store:    deps.Store,
		weather:  deps.Weather,
		gen:      deps.Gen,
		sessions: deps.Sessions,
		pick:     pick,
	}
}

// Reply routes one user message and returns the response text plus the
// session id to echo back (freshly minted when sessionID was empty). It
// never returns an error: every internal failure collapses to a fixed
// user-facing string. First match wins, in this order: greeting, farewell,
// weather, knowledge-augmented query.
func (b *Bot) Reply(ctx context.Context, sessionID, raw string) (string, string) {
	sess := b.sessions.Acquire(ctx, sessionID)
	text := textutil.Normalize(raw)

	switch {
	case containsAny(text, greetingPhrases):
		return greetings[b.pick(len(greetings))], sess.ID

	case containsAny(text, farewellPhrases):
		return FarewellMessage, sess.ID

	case containsAny(text, weatherKeywords()):
		return b.weatherReply(ctx, sess), sess.ID

	default:
		return b.queryReply(ctx, sess, text), sess.ID
	}
}

// Timestamp returns the current time in RFC 3339 form.
func (b *Bot) Timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// weatherReply fetches the live reading and hands it to the generation
// client. Any feed failure returns the fixed apology; the backend is never
// called on that path.
func (b *Bot) weatherReply(ctx context.Context, sess *session.Session) string {
	reading, err := b.weather.Latest(ctx)
	if err != nil {
		if errors.Is(err, weather.ErrNotConfigured) {
			b.logger.Debug().Msg("weather query without a configured feed")
		} else {
			b.logger.Warn().Err(err).Msg("weather feed fetch failed")
		}
		return WeatherApology
	}

	instruction := "User asked about the weather. The current sensor readings are " +
		"attached (temperature in °C, humidity in %, pressure in hPa). " +
		"Explain what this means for farming."

	sess.Lock()
	defer sess.Unlock()
	return b.gen.Respond(ctx, sess.Conv, instruction, reading)
}

// queryReply classifies the topic, runs the knowledge lookup when a topic is
// found, and forwards text plus the (possibly nil) context entry.
func (b *Bot) queryReply(ctx context.Context, sess *session.Session, text string) string {
	var contextData any
	if topic, ok := ClassifyTopic(text); ok {
		if entry := b.store.Search(text, topic); entry != nil {
			contextData = entry
		}
	}

	sess.Lock()
	defer sess.Unlock()
	return b.gen.Respond(ctx, sess.Conv, text, contextData)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
