package main

import "net/url"

// redactURI hides credentials before a URI is logged
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
