// Package httpapi exposes the answer, sync and status operations over HTTP
// using Fiber. Response shapes are kept compatible with the campus notice
// web client: POST /chat, GET|POST /sync and GET /status.
package httpapi
