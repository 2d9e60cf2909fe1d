// Package models defines the records exchanged with the certification
// portal API: users, profiles with their education and experience rows,
// attachments, dashboard stats and auth payloads.
package models
