// Package leadform models the per-track application questionnaires and submits
// answers to the save-lead endpoint.
package leadform

// Kind is the input control a question renders as.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindHidden   Kind = "hidden"
)

// Option is one choice of a select question.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is a single form field. Name is the payload key.
type Question struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Required    bool     `json:"required"`
	Value       string   `json:"value,omitempty"` // fixed value for hidden fields
}

func text(name, label, placeholder string) Question {
	return Question{Name: name, Label: label, Kind: KindText, Placeholder: placeholder, Required: true}
}

func textarea(name, label, placeholder string) Question {
	return Question{Name: name, Label: label, Kind: KindTextarea, Placeholder: placeholder, Required: true}
}

func number(name, label, placeholder string) Question {
	return Question{Name: name, Label: label, Kind: KindNumber, Placeholder: placeholder, Required: true}
}

func choice(name, label string, opts ...Option) Question {
	return Question{Name: name, Label: label, Kind: KindSelect, Options: opts, Required: true}
}

// CommonQuestions are asked on every track form.
var CommonQuestions = []Question{
	text("fullName", "Full Name", "Jane Doe"),
	{Name: "email", Label: "Email Address", Kind: KindEmail, Placeholder: "jane@email.com", Required: true},
	text("countryTz", "Country/Time Zone", "India / IST"),
	choice("tradedBefore", "Have you ever traded before?",
		Option{"Nope, I'm brand new", "brand_new"},
		Option{"I tried demo once", "demo_once"},
		Option{"Yes, but still learning basics", "learning_basics"},
	),
	choice("heardFrom", "How did you come to know about Silent Equity?",
		Option{"Instagram", "instagram"},
		Option{"Friends", "friends"},
		Option{"Events", "events"},
	),
	choice("biggestConcern", "What's your biggest concern about trading?",
		Option{"Losing money", "losing_money"},
		Option{"Not knowing where to start", "where_to_start"},
		Option{"Too complicated", "too_complicated"},
		Option{"Staying consistent", "staying_consistent"},
	),
}

var trackQuestions = map[string][]Question{
	"coc": {
		choice("coc_reason", "Why do you want to learn trading?",
			Option{"Earn a side income", "side_income"},
			Option{"Become a full-time trader", "full_time"},
			Option{"Learn for knowledge/Interest", "knowledge_interest"},
		),
		choice("coc_commit", "Are you ready to invest a year or more to find the profitability edge?",
			Option{"Yes, am born ready", "born_ready"},
			Option{"1 year is too long, still I think I should be motivated for that challenge.", "one_year_long_but_try"},
		),
		choice("coc_studied_institution", "Have you ever studied from any trading institution?",
			Option{"Yes", "yes"},
			Option{"No", "no"},
		),
		choice("coc_forex_basics", "Are you aware of the basics of forex?",
			Option{"Yes, I have referred videos / I have studied from others", "aware"},
			Option{"No, I need to start fresh", "start_fresh"},
		),
		textarea("coc_current_struggles", "Current Struggles",
			"Share details: execution discipline, overtrading, FOMO, risk management, journaling..."),
		number("coc_hours_per_week", "Hours available per week", "e.g., 5-10"),
	},
	"edge": {
		number("dailyMinutes", "Daily time you can commit (minutes)", "10-20"),
		text("capitalUSD", "Capital to allocate (USD)", "1000-5000"),
		textarea("riskComfort", "Risk comfort and return expectations", "Max drawdown comfort, monthly target appetite..."),
		textarea("platforms", "Platforms/Brokers currently used", "Broker name(s), account types, tools..."),
	},
	"discord": {
		text("discordTag", "Discord Tag", "username#1234"),
		text("focusArea", "Focus area", "FX / Indices / Options / Crypto"),
		textarea("expectations", "What do you want from Premium?", "Live rooms, reviews, resources, accountability..."),
	},
	"live": {
		text("experienceLevel", "Experience level", "Beginner / Intermediate / Advanced"),
		number("riskPercent", "Risk per trade (%)", "0.25-1.0"),
		textarea("markets", "Markets interested", "Major FX, XAUUSD, indices, BTC, value equities..."),
		textarea("delivery", "Preferred delivery", "Discord channel, concise summaries, alert style..."),
	},
}
