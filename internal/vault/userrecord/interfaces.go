// Package userrecord implements user-record persistence (spec.md §4.6,
// C7): loading and saving the UserKey+UserData pair at the deterministic
// path its UUID's file-locator stem names (spec.md §6:
// users/<file_uuid>.json).
package userrecord

//go:generate mockgen -source=interfaces.go -destination=mock/userrecord_mock.go -package=mock
