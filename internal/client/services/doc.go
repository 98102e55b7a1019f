// Package services binds the generic resource store to the Board API.
//
// Contract:
//   - NewPostStore: posts, newest first; created posts are prepended and the
//     list is fetched with a limit.
//   - NewUserStore: users in server order; created users are appended. The
//     endpoints are admin only, so non-admin sessions see ErrForbidden.
//
// Both stores use the server's "detail" message when there is one and a
// fixed fallback otherwise.
package services
