// Package urls holds the documentation links printed by the command line
// tools, so they can be updated in one place.
//
// Usage:
//
//	fmt.Printf("See: %s\n", urls.GettingStarted)
package urls
