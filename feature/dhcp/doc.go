// Package dhcp is the DHCP lease source.
//
// Leases are keyed by host name when the client sent one, else by MAC.
// A server scope of "*" (or no scope at all) collects leases of every server.
package dhcp
