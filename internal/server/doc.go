// Package server implements the web interface of wordrank.
//
// It serves an HTML form that analyses a submitted URL and shows the ranked
// word list, plus a small JSON API:
//
//	GET  /              form
//	POST /              analyse the form's url field
//	GET  /app-version   version and echoed query parameters
//	GET  /users         list users (?limit=N)
//	POST /users         create a user from {"username": ..., "email": ...}
//	GET  /results       list saved analyses (?url=...&limit=N)
//	GET  /results/{id}  one saved analysis
//
// JSON responses use the envelope {"status": "success"|"failed", "data": ...}.
package server
