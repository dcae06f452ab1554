// Package main provides the entry point of splitledger, a JSON API over fiber
// for groups of users sharing expenses. It stores group memberships and debts
// with gorm and reports each member's balance inside a group. Callers are
// identified by the session cookie issued by the login service.
package main
