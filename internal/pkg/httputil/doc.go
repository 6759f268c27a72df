// Package httputil centralizes JSON response writing for the HTTP layer.
//
// Handlers go through these helpers rather than touching the
// http.ResponseWriter directly, so every endpoint shares one envelope
// shape and one error format.
package httputil
