package main

// General API documentation for swaggo. Regenerate with
// `swag init -g cmd/storyfeed/docs.go -o internal/apidocs`.
//
// @title           storyfeed API
// @version         1.0
// @description     Top stories per collection from a JSONP listing endpoint. Within a session only the latest request is answered.
//
// @contact.name   storyfeed maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
