// Package links builds the outbound URLs shown next to a resolved movie:
// poster image, YouTube trailer, and OTT availability search.
package links
