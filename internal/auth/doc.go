// Package auth checks credentials for the two account classes.
//
// Administrators and regular users live in separate tables. Login consults
// admins first, then users, so an administrator wins when both tables hold
// the same username with the same password. Users can register over HTTP;
// administrators are created from the CLI only.
//
// No session or token is issued: a successful login only reports the role.
//
// # Configuration
//
//	AUTH_BCRYPT_COST=12            # bcrypt cost factor
//	AUTH_MAX_LOGIN_ATTEMPTS=5      # Failures before lockout
//	AUTH_RATE_LIMIT_WINDOW=15m     # Window for counting failures
//	AUTH_LOCKOUT_DURATION=30m      # Lockout length
//
// # Usage
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	role, err := authService.Login(ctx, "alice", "secret")
//	if errors.Is(err, auth.ErrInvalidCredentials) { ... }
package auth
