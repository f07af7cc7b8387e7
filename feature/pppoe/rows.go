package pppoe

import (
	"shaper-sync/core/routeros"
	"shaper-sync/core/utils"
)

// Resource paths read by the source.
const (
	PathSecret  = "/ppp/secret"
	PathActive  = "/ppp/active"
	PathProfile = "/ppp/profile"
)

// Secret is a /ppp/secret row.
type Secret struct {
	Name     string
	Profile  string
	Comment  string
	Disabled bool
}

// Active is a /ppp/active row.
type Active struct {
	Name    string
	Address string
}

// Profile is a /ppp/profile row.
type Profile struct {
	Name      string
	RateLimit string
	Comment   string
}

func secretFromRow(r routeros.Row) Secret {
	return Secret{
		Name:     r["name"],
		Profile:  r["profile"],
		Comment:  r["comment"],
		Disabled: utils.ToBool(r["disabled"]),
	}
}

func activeFromRow(r routeros.Row) Active {
	return Active{
		Name:    r["name"],
		Address: r["address"],
	}
}

func profileFromRow(r routeros.Row) Profile {
	return Profile{
		Name:      r["name"],
		RateLimit: r["rate-limit"],
		Comment:   r["comment"],
	}
}
