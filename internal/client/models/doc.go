// Package models defines the wire types exchanged with the Board API.
//
// Field names follow the API's JSON: posts are identified by post_id and
// carry their author as user_id/username, users are identified by user_id.
// Timestamps are kept as the ISO-8601 strings the server sends; the client
// never parses or re-sorts by them.
package models
