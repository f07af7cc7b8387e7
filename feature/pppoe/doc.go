// Package pppoe is the PPPoE session source.
//
// A circuit exists for every enabled /ppp/secret whose name is currently in
// /ppp/active with an address. Rates come from the secret's profile.
package pppoe
