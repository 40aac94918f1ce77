// Package log builds the slog loggers of wordrank. Every logger is wrapped in
// a SecureHandler that masks secrets before they reach the output:
//   - values logged under keys such as cookie, authorization or email, plus
//     any custom header names from the configuration file
//   - values that look like tokens, keys or e-mail addresses
//   - passwords and credential query parameters inside URLs, while the rest
//     of the URL stays readable
//
// Masking also applies in verbose mode.
//
//	logger := log.NewSecureLogger(os.Stderr, true, log.WithSensitiveKeys("X-Tenant"))
//	logger.Info("user created", "id", 7, "email", "gopher@example.com") // email=***REDACTED***
package log
