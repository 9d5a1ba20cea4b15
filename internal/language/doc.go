// Package language holds the catalog of languages a recommendation can be
// restricted to and normalises user input (labels, ISO codes, BCP-47 tags)
// into catalog options.
package language
