// Package hotspot is the hotspot session source. Rates are the router's
// configured limits, not values read from the router.
package hotspot
