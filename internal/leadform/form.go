package leadform

import (
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/silentequity/lead-intake/internal/tracks"
)

// Brief is the short "who is this for" panel shown above a form.
type Brief struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
	Note  string   `json:"note,omitempty"`
}

var briefs = map[string]Brief{
	tracks.CodeOfConsistency: {
		Title: "Who is Code of Consistency for?",
		Lines: []string{
			"Traders who want to learn proper, accountable trading with step-by-step structure.",
			"Ideal for building a serious side-hustle or growing into a full-time trading career.",
			"Focus on execution discipline, risk control, journaling, and a repeatable process.",
		},
		Note: "Education-first: coaching, routines, Q&As, and process enforcement to make consistency inevitable.",
	},
	tracks.GuaranteedEdge: {
		Title: "Who is The Guaranteed Edge for?",
		Lines: []string{
			"Working professionals who want a time-light, structured approach (~10-20 minutes/day).",
			"Mathematical, rule-based cycles with pre-defined risk and profit booking logic.",
			"No education curriculum. This is a plug-in method, not a teaching program.",
		},
		Note: "Education excluded: this is a mathematical approach to trading, focused on execution of the model.",
	},
	tracks.DiscordPremium: {
		Title: "Discord Premium Membership Access",
		Lines: []string{
			"Perfect for traders who want daily accountability, live rooms, premium calls, and resources.",
			"Stay connected to structured routines, weekly reviews, and community challenges.",
			"Great companion for both learners and busy professionals who need guidance momentum.",
		},
		Note: "Premium gives access and support, not a standalone full education program.",
	},
	tracks.LiveTrades: {
		Title: "Live Trades Callouts & Investment Insights",
		Lines: []string{
			"Curated FX callouts and investment ideas with risk, context, and cycle structure.",
			"Meant for those who prefer guided signals and higher-level insights over DIY discovery.",
			"Pairs well with proper risk management and a clear journaling routine.",
		},
		Note: "This is not an education service; it delivers actionable ideas with structured context.",
	},
}

// Form is the questionnaire for one track.
type Form struct {
	Track     tracks.Track `json:"track"`
	Brief     Brief        `json:"brief"`
	Questions []Question   `json:"questions"`
}

// FormFor builds the form for a track tag.
func FormFor(tag string) (Form, error) {
	track, ok := tracks.Lookup(tag)
	if !ok {
		return Form{}, fmt.Errorf("leadform: %q: %w", tag, tracks.ErrUnknownTrack)
	}

	specific := trackQuestions[tag]
	questions := make([]Question, 0, len(CommonQuestions)+len(specific)+2)
	questions = append(questions, CommonQuestions...)
	questions = append(questions, specific...)
	questions = append(questions,
		Question{Name: "service", Kind: KindHidden, Value: track.Tag},
		Question{Name: "price", Kind: KindHidden, Value: track.Price},
	)

	return Form{Track: track, Brief: briefs[tag], Questions: questions}, nil
}

// Title is the page heading for the form.
func (f Form) Title() string {
	return "Apply: " + f.Track.Title
}

// ValidationError lists every field that failed, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "leadform: invalid answers: " + strings.Join(parts, "; ")
}

// Validate applies the browser-side constraints: required fields, email
// syntax, numeric inputs and select options. The endpoint itself never
// validates.
func (f Form) Validate(answers map[string]string) error {
	problems := map[string]string{}
	for _, q := range f.Questions {
		if q.Kind == KindHidden {
			continue
		}
		v := answers[q.Name]
		if strings.TrimSpace(v) == "" {
			if q.Required {
				problems[q.Name] = "required"
			}
			continue
		}
		switch q.Kind {
		case KindEmail:
			if addr, err := mail.ParseAddress(v); err != nil || addr.Address != strings.TrimSpace(v) {
				problems[q.Name] = "must be an email address"
			}
		case KindNumber:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				problems[q.Name] = "must be a number"
			}
		case KindSelect:
			if !hasOption(q.Options, v) {
				problems[q.Name] = "not an allowed option"
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// Payload flattens answers into the request body. Every form field is
// present, unanswered ones as "", hidden fields carry their fixed values and
// keys outside the form are dropped. No computed fields are added.
func (f Form) Payload(answers map[string]string) map[string]string {
	out := make(map[string]string, len(f.Questions))
	for _, q := range f.Questions {
		if q.Kind == KindHidden {
			out[q.Name] = q.Value
			continue
		}
		out[q.Name] = answers[q.Name]
	}
	return out
}

// Question returns the named field.
func (f Form) Question(name string) (Question, bool) {
	for _, q := range f.Questions {
		if q.Name == name {
			return q, true
		}
	}
	return Question{}, false
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
