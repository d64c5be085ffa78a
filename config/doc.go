// Package config loads the relay's environment configuration.
//
// Settings come from environment variables, optionally seeded from a .env
// file in the working directory. PORT defaults to 8001. SMTP settings are
// optional; without them the notification side channel logs instead of
// emailing.
package config
