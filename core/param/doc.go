// Package param reads the parameters of a single platform request.
//
// A RequestContext is built once per request from the CGI environment and the
// request body. Query strings and url-encoded bodies are kept in memory,
// multipart bodies are spooled to a temporary file. Either way the parser only
// records byte ranges into that store; values are decoded and copied out on
// lookup. The context owns the store and must be closed at the end of the request.
package param
