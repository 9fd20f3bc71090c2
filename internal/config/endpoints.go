package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Endpoints maps each remote operation to its path on the quiz API. Paths may
// contain {levelId}, {questionId}, {hintId} and {teamId} placeholders.
type Endpoints struct {
	VerifyUser     string `json:"verifyUser"`
	Login          string `json:"login"`
	Logout         string `json:"logout"`
	ForgotPassword string `json:"forgotPassword"`
	SetNewPassword string `json:"setNewPassword"`
	LevelStats     string `json:"levelStats"`
	ReleaseHint    string `json:"releaseHint"`
	AllTeams       string `json:"allTeams"`
	BlockTeam      string `json:"blockTeam"`
	UnblockTeam    string `json:"unblockTeam"`
	LevelUpTeam    string `json:"levelUpTeam"`
}

// DefaultEndpoints returns the built-in endpoint table.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		VerifyUser:     "/api/auth/verify",
		Login:          "/api/auth/login",
		Logout:         "/api/auth/logout",
		ForgotPassword: "/api/auth/forgot-password",
		SetNewPassword: "/api/auth/reset-password",
		LevelStats:     "/api/admin/levels/{levelId}/stats",
		ReleaseHint:    "/api/admin/questions/{questionId}/hints/{hintId}/release",
		AllTeams:       "/api/admin/teams",
		BlockTeam:      "/api/admin/teams/{teamId}/block",
		UnblockTeam:    "/api/admin/teams/{teamId}/unblock",
		LevelUpTeam:    "/api/admin/teams/{teamId}/level-up",
	}
}

// LoadEndpoints returns the default table with any entries from the YAML file
// at path applied on top. An empty path yields the defaults.
func LoadEndpoints(path string) (Endpoints, error) {
	eps := DefaultEndpoints()
	if path == "" {
		return eps, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Endpoints{}, fmt.Errorf("reading endpoints file %s: %w", path, err)
	}

	var override Endpoints
	if err := yaml.UnmarshalStrict(b, &override); err != nil {
		return Endpoints{}, fmt.Errorf("parsing endpoints file %s: %w", path, err)
	}

	eps.merge(override)
	return eps, nil
}

func (e *Endpoints) merge(o Endpoints) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&e.VerifyUser, o.VerifyUser)
	set(&e.Login, o.Login)
	set(&e.Logout, o.Logout)
	set(&e.ForgotPassword, o.ForgotPassword)
	set(&e.SetNewPassword, o.SetNewPassword)
	set(&e.LevelStats, o.LevelStats)
	set(&e.ReleaseHint, o.ReleaseHint)
	set(&e.AllTeams, o.AllTeams)
	set(&e.BlockTeam, o.BlockTeam)
	set(&e.UnblockTeam, o.UnblockTeam)
	set(&e.LevelUpTeam, o.LevelUpTeam)
}
