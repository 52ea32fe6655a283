// Package api exposes the scheduling, session and analytics services over
// HTTP. Handlers resolve the caller from the bearer token, decode and
// validate the request, call one service and map its errors to status codes
// with messages that are safe to show to clients.
package api
