package level

import "encoding/json"

// TeamRef names a team in a stats or completion listing.
type TeamRef struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
}

// Hint is one hint of a question. Flag is true once the hint is released.
type Hint struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Flag bool   `json:"flag"`
}

// UnmarshalJSON accepts the API's "_id" as well as "id".
func (h *Hint) UnmarshalJSON(b []byte) error {
	var raw struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Text    string `json:"text"`
		Flag    bool   `json:"flag"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	h.ID = raw.MongoID
	if h.ID == "" {
		h.ID = raw.ID
	}
	h.Text = raw.Text
	h.Flag = raw.Flag
	return nil
}

// QuestionStats is the live state of one question within a level.
type QuestionStats struct {
	QuestionID          string    `json:"questionId"`
	Title               string    `json:"title"`
	CurrentlyAttempting int       `json:"currentlyAttempting"`
	AttemptingTeams     []TeamRef `json:"attemptingTeams"`
	Hints               []Hint    `json:"hints"`
	CorrectCode         string    `json:"correctCode"`
}

// Snapshot is the server's question stats for one level at a point in time.
type Snapshot struct {
	Success       bool            `json:"success"`
	LevelNumber   int             `json:"levelNumber"`
	QuestionStats []QuestionStats `json:"questionStats"`
}

// Clone returns a deep copy so callers can read it without holding locks.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Success:       s.Success,
		LevelNumber:   s.LevelNumber,
		QuestionStats: make([]QuestionStats, len(s.QuestionStats)),
	}
	for i, q := range s.QuestionStats {
		q.AttemptingTeams = append([]TeamRef(nil), q.AttemptingTeams...)
		q.Hints = append([]Hint(nil), q.Hints...)
		out.QuestionStats[i] = q
	}
	return out
}

// WithHintReleased returns a copy of s in which only the hint hintID of
// question questionID has Flag set. The receiver is not modified.
func (s *Snapshot) WithHintReleased(questionID, hintID string) *Snapshot {
	out := s.Clone()
	if out == nil {
		return nil
	}
	for qi := range out.QuestionStats {
		q := &out.QuestionStats[qi]
		if q.QuestionID != questionID {
			continue
		}
		for hi := range q.Hints {
			if q.Hints[hi].ID == hintID {
				q.Hints[hi].Flag = true
			}
		}
	}
	return out
}

// CompletionSummary lists the teams that finished every level, in rank order.
type CompletionSummary struct {
	TotalTeams int       `json:"totalTeams"`
	TeamNames  []TeamRef `json:"teamNames"`
}

// RankedTeam is a completed team with its 1-based rank.
type RankedTeam struct {
	TeamRef
	Rank int `json:"rank"`
}

// Ranked returns the teams with their ranks in listing order.
func (c CompletionSummary) Ranked() []RankedTeam {
	out := make([]RankedTeam, 0, len(c.TeamNames))
	for i, t := range c.TeamNames {
		out = append(out, RankedTeam{TeamRef: t, Rank: i + 1})
	}
	return out
}
