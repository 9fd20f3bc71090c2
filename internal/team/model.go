package team

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Member is one player on a team.
type Member struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Lead is the team's captain.
type Lead struct {
	Name string `json:"name"`
}

// Level is the level a team is currently on. It is absent for teams that have
// not started.
type Level struct {
	Level int `json:"level"`
}

// Completion records when a team solved one question. CompletedAt is zero
// when the API sent no usable timestamp.
type Completion struct {
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

var completedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// UnmarshalJSON accepts completedAt as a date string in any common layout or
// as Unix milliseconds. Null and unrecognised values leave it zero rather
// than failing the whole roster.
func (c *Completion) UnmarshalJSON(data []byte) error {
	var raw struct {
		CompletedAt json.RawMessage `json:"completedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.CompletedAt = parseCompletedAt(raw.CompletedAt)
	return nil
}

func parseCompletedAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range completedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Team is one roster entry as returned by the API plus the derived fields the
// admin view sorts and displays by.
type Team struct {
	ID                 string       `json:"_id"`
	Name               string       `json:"teamName"`
	Lead               *Lead        `json:"teamLead"`
	Members            []Member     `json:"members"`
	CurrentLevel       *Level       `json:"currentLevel"`
	Score              int          `json:"score"`
	CompletedQuestions []Completion `json:"completedQuestions"`
	Blocked            bool         `json:"blocked"`

	TotalCompletedQuestions   int   `json:"totalCompletedQuestions"`
	LastCompletedQuestionTime int64 `json:"lastCompletedQuestionTime"`
}

// Derive fills TotalCompletedQuestions and LastCompletedQuestionTime (Unix
// milliseconds of the latest completion, 0 when there is none). Completions
// without a usable time count toward the total but never lower the time
// below 0.
func (t *Team) Derive() {
	t.TotalCompletedQuestions = len(t.CompletedQuestions)
	t.LastCompletedQuestionTime = 0
	for _, c := range t.CompletedQuestions {
		if c.CompletedAt.IsZero() {
			continue
		}
		if ms := c.CompletedAt.UnixMilli(); ms > t.LastCompletedQuestionTime {
			t.LastCompletedQuestionTime = ms
		}
	}
}

// SortByLastCompletion derives every team's fields and orders the roster by
// most recent completion first. Ties keep their API order.
func SortByLastCompletion(teams []Team) {
	for i := range teams {
		teams[i].Derive()
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].LastCompletedQuestionTime > teams[j].LastCompletedQuestionTime
	})
}
