// Package auth implements the actor resolution middleware for the web
// service. It authenticates incoming requests from a session cookie, an
// API token header or HTTP basic credentials and exposes the result as an
// auth.Actor in the request locals.
package auth
